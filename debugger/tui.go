package debugger

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// TUI is the text user interface over a Debugger, adapted from the
// arm-emulator example's debugger/tui.go and reduced from its
// six-pane register/memory/source layout to the two panes a stack VM
// with no addressable memory or registers actually has: disassembly
// and operand stack, plus an output log and command line.
type TUI struct {
	Debugger *Debugger
	App      *tview.Application

	MainLayout      *tview.Flex
	DisassemblyView *tview.TextView
	StackView       *tview.TextView
	OutputView      *tview.TextView
	CommandInput    *tview.InputField
}

// NewTUI builds the views, layout, and key bindings over d.
func NewTUI(d *Debugger) *TUI {
	t := &TUI{
		Debugger: d,
		App:      tview.NewApplication(),
	}
	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()
	return t
}

func (t *TUI) initializeViews() {
	t.DisassemblyView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.DisassemblyView.SetBorder(true).SetTitle(" Disassembly ")

	t.StackView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.StackView.SetBorder(true).SetTitle(" Stack ")

	t.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().SetLabel("> ").SetFieldWidth(0)
	t.CommandInput.SetBorder(true).SetTitle(" Command ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
}

func (t *TUI) buildLayout() {
	top := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.DisassemblyView, 0, 2, false).
		AddItem(t.StackView, 0, 1, false)

	t.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(top, 0, 3, false).
		AddItem(t.OutputView, 8, 0, false).
		AddItem(t.CommandInput, 3, 0, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF5:
			t.executeCommand("continue")
			return nil
		case tcell.KeyF11:
			t.executeCommand("step")
			return nil
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		case tcell.KeyCtrlL:
			t.RefreshAll()
			return nil
		}
		return event
	})
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	cmd := t.CommandInput.GetText()
	if cmd != "" {
		t.executeCommand(cmd)
		t.CommandInput.SetText("")
	}
}

func (t *TUI) executeCommand(cmd string) {
	err := t.Debugger.ExecuteCommand(cmd)
	output := t.Debugger.GetOutput()
	if err != nil {
		t.writeOutput(fmt.Sprintf("[red]error:[white] %v\n", err))
	}
	if output != "" {
		t.writeOutput(output)
	}
	t.RefreshAll()
}

func (t *TUI) writeOutput(text string) {
	_, _ = t.OutputView.Write([]byte(text))
	t.OutputView.ScrollToEnd()
}

// RefreshAll repaints the disassembly and stack panes from the
// current VM state.
func (t *TUI) RefreshAll() {
	t.DisassemblyView.SetText(t.Debugger.VM.Chunk().Disassemble("program"))

	stack := t.Debugger.VM.Stack()
	heap := t.Debugger.VM.Heap()
	var s string
	for i := len(stack) - 1; i >= 0; i-- {
		s += fmt.Sprintf("%3d: %s\n", i, stack[i].String(heap))
	}
	t.StackView.SetText(s)
}

// Run starts the TUI event loop, blocking until the user quits.
func (t *TUI) Run() error {
	t.RefreshAll()
	return t.App.SetRoot(t.MainLayout, true).SetFocus(t.CommandInput).Run()
}
