package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/renato0307/idevman/internal/domain"
	"github.com/renato0307/idevman/internal/logging"
	"github.com/renato0307/idevman/internal/ui"
)

var errTaskUnsuccessful = errors.New("task did not succeed")

// FlashCmd flashes a firmware from the catalog
type FlashCmd struct {
	Firmware string `arg:"" help:"Firmware label, name, version or build (see 'firmware list')"`
	Yes      bool   `help:"Skip the confirmation prompt" short:"y"`
}

// Run executes the flash command
func (f *FlashCmd) Run(cli *CLI) error {
	return runTask(cli, domain.TaskFlash, f.Firmware, f.Yes)
}

// JailbreakCmd runs a jailbreak tool from the catalog
type JailbreakCmd struct {
	Tool string `arg:"" help:"Jailbreak tool name (see 'firmware list')"`
	Yes  bool   `help:"Skip the confirmation prompt" short:"y"`
}

// Run executes the jailbreak command
func (j *JailbreakCmd) Run(cli *CLI) error {
	return runTask(cli, domain.TaskJailbreak, j.Tool, j.Yes)
}

// BackupCmd backs up the device
type BackupCmd struct {
	Dir string `arg:"" help:"Directory to write the backup to" type:"path"`
}

// Run executes the backup command
func (b *BackupCmd) Run(cli *CLI) error {
	if err := os.MkdirAll(b.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}
	return runTask(cli, domain.TaskBackup, b.Dir, true)
}

// confirmPrompt returns the question asked before a destructive task, or "" when none is needed
func confirmPrompt(kind domain.TaskKind, target string) string {
	switch kind {
	case domain.TaskFlash:
		return fmt.Sprintf("Flash %s? This cannot be undone!", target)
	case domain.TaskJailbreak:
		return fmt.Sprintf("Run %s jailbreak? This may void your warranty!", target)
	default:
		return ""
	}
}

func confirm(title string) (bool, error) {
	confirmed := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Value(&confirmed).
				Affirmative("Continue").
				Negative("Cancel"),
		),
	)
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("confirmation failed: %w", err)
	}
	return confirmed, nil
}

// runTask submits a task and renders its progress until it finishes.
// Interrupting the command cancels the task.
func runTask(cli *CLI, kind domain.TaskKind, query string, yes bool) error {
	if _, err := connect(cli); err != nil {
		return err
	}

	target, err := cli.Container.Catalog.Resolve(kind, query)
	if err != nil {
		return err
	}

	if prompt := confirmPrompt(kind, target); prompt != "" && !yes {
		confirmed, err := confirm(prompt)
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	// Subscribe before submitting so no progress is missed
	events, unsubscribe := cli.Container.Bus.Subscribe(printerBuffer)
	defer unsubscribe()

	tasks := cli.Container.TaskService
	task, err := tasks.Submit(kind, target)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	finished := make(chan domain.Task, 1)
	go func() {
		final, _ := tasks.Wait(task.ID)
		finished <- final
	}()

	p := mpb.New(mpb.WithWidth(64))
	name := string(kind)
	bar := p.New(100,
		mpb.BarStyle().Lbound("[").Filler("=").Tip(">").Padding("-").Rbound("|"),
		mpb.PrependDecorators(
			decor.Name(name, decor.WC{W: len(name) + 1, C: decor.DindentRight}),
			// replace ETA decorator with "done" message, OnComplete event
			decor.OnComplete(
				decor.AverageETA(decor.ET_STYLE_GO, decor.WC{W: 4}), "done",
			),
		),
		mpb.AppendDecorators(
			decor.Percentage(),
			decor.Name(" ] "),
		),
	)

	// Log lines are held back while the bar owns the terminal
	var logs []domain.LogEvent
	handle := func(event domain.Event) {
		switch e := event.(type) {
		case domain.ProgressEvent:
			if e.TaskID == task.ID {
				bar.SetCurrent(int64(e.Value))
			}
		case domain.LogEvent:
			logs = append(logs, e)
		}
	}

	interrupted := ctx.Done()
	var final domain.Task
wait:
	for {
		select {
		case <-interrupted:
			logging.Logger.Info("Interrupted, cancelling task", "id", task.ID)
			_ = tasks.Cancel(task.ID)
			interrupted = nil
		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			handle(event)
		case final = <-finished:
			break wait
		}
	}

	// Everything published before the task finished is already buffered
drain:
	for {
		select {
		case event, ok := <-events:
			if !ok {
				break drain
			}
			handle(event)
		default:
			break drain
		}
	}

	if final.State == domain.TaskSucceeded {
		bar.SetCurrent(100)
	} else {
		bar.Abort(false)
	}
	p.Wait()

	for _, entry := range logs {
		fmt.Fprintln(os.Stderr, ui.FormatLogLine(entry))
	}

	if final.State != domain.TaskSucceeded {
		return fmt.Errorf("%w: %s %s", errTaskUnsuccessful, kind, final.State)
	}
	return nil
}
