package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/panel/pkg/telemetry"
	"github.com/odvcencio/panel/pkg/ui/widgets"
	"github.com/odvcencio/panel/pkg/ui/wm"
)

const aboutText = "Drag a window by its title bar. The three dots close, minimize and maximize it. Type into Notes; scroll the lists with the wheel."

func demoCmd(opts *rootOptions) *cobra.Command {
	var ticks int
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the desktop with a set of sample windows",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDesktop(cmd, opts, ticks, func(ctx context.Context, s *session) error {
				// subscribe first so the table also lists the demo's own windows
				events, unsubscribe := s.hub.Subscribe()
				d, err := buildDemo(s.desktop)
				if err != nil {
					unsubscribe()
					return err
				}
				go func() {
					defer unsubscribe()
					d.follow(ctx, events, s.runner)
				}()
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&ticks, "ticks", 0, "stop after this many ticks (0 runs until interrupted)")
	return cmd
}

// demo is the sample desktop: a notes window, a task list with an add
// button, an event table fed from the telemetry hub and a wrapped help text.
type demo struct {
	notes  *widgets.TextBox
	tasks  *widgets.ListBox
	add    *widgets.Button
	status *widgets.Label
	events *widgets.Table
	about  *widgets.TextView

	added int
}

func buildDemo(d *wm.Desktop) (*demo, error) {
	dm := &demo{}

	about, err := d.CreateWindow(162, 132, 150, 100, "About")
	if err != nil {
		return nil, err
	}
	dm.about = widgets.NewTextView(4, 4, 140, 80, aboutText)
	if err := about.AddWidget(dm.about); err != nil {
		return nil, err
	}

	events, err := d.CreateWindow(6, 112, 150, 120, "Events")
	if err != nil {
		return nil, err
	}
	dm.events, err = widgets.NewTable(4, 4, 140, 98, []string{"Event", "Window"}, nil)
	if err != nil {
		return nil, err
	}
	if err := events.AddWidget(dm.events); err != nil {
		return nil, err
	}

	tasks, err := d.CreateWindow(162, 6, 150, 120, "Tasks")
	if err != nil {
		return nil, err
	}
	dm.tasks = widgets.NewListBox(0, 0, 140, 60, []string{"Write notes", "Drag a window"})
	dm.add = widgets.NewButton(0, 0, 48, 14, "Add", dm.addTask)
	dm.status = widgets.NewLabel(0, 0, "2 tasks")
	pack := widgets.NewPackLayout(tasks, widgets.Vertical)
	for _, w := range []widgets.Widget{dm.tasks, dm.add, dm.status} {
		if err := pack.Add(w); err != nil {
			return nil, err
		}
	}

	// Created last so its text box ends up with keyboard focus.
	notes, err := d.CreateWindow(6, 6, 150, 100, "Notes")
	if err != nil {
		return nil, err
	}
	dm.notes = widgets.NewTextBox(4, 4, 140, 80, "")
	if err := notes.AddWidget(dm.notes); err != nil {
		return nil, err
	}
	return dm, nil
}

func (dm *demo) addTask() {
	dm.added++
	dm.tasks.AddItem(fmt.Sprintf("Task %d", dm.added))
	dm.status.SetText(fmt.Sprintf("%d tasks", len(dm.tasks.Items())))
}

// record adds one hub event to the event table and keeps the newest row
// in view.
func (dm *demo) record(ev telemetry.Event) {
	dm.events.AddRow([]string{string(ev.Type), ev.Title})
	n := dm.events.Rows()
	dm.events.Select(n - 1)
	for i := 0; i < n; i++ {
		if _, end := dm.events.VisibleRange(); end >= n {
			break
		}
		dm.events.OnScroll(-1)
	}
}

// follow mirrors hub events into the table. Widgets belong to the dispatch
// goroutine, so updates are posted to the runner.
func (dm *demo) follow(ctx context.Context, ch <-chan telemetry.Event, runner *wm.Runner) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			runner.Post(func() { dm.record(ev) })
		}
	}
}
