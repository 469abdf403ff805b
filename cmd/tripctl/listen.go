package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Overland-East-Bay/trip-planner-client/internal/app/speech"
	"github.com/Overland-East-Bay/trip-planner-client/internal/domain"
	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/recognizer"
)

// errNothingHeard is returned when a run ends without a result or an error.
var errNothingHeard = errors.New("recognition ended without a transcript")

// endNotifier decorates a platform so the CLI learns when a run ends. The adapter
// reports results and errors through callbacks but a silent end only via OnEnd.
type endNotifier struct {
	recognizer.Platform
	ended chan struct{}
}

func newEndNotifier(p recognizer.Platform) *endNotifier {
	return &endNotifier{Platform: p, ended: make(chan struct{}, 1)}
}

func (n *endNotifier) New(cfg recognizer.Config) (recognizer.Recognizer, error) {
	r, err := n.Platform.New(cfg)
	if err != nil {
		return nil, err
	}
	return &endSignalling{Recognizer: r, n: n}, nil
}

type endSignalling struct {
	recognizer.Recognizer
	n *endNotifier
}

func (r *endSignalling) Start(h recognizer.Handlers) error {
	onEnd := h.OnEnd
	h.OnEnd = func() {
		if onEnd != nil {
			onEnd()
		}
		select {
		case r.n.ended <- struct{}{}:
		default:
		}
	}
	return r.Recognizer.Start(h)
}

// drain forgets an end signal left over from an earlier run.
func (n *endNotifier) drain() {
	select {
	case <-n.ended:
	default:
	}
}

// dictate runs one recognition session and waits for its outcome.
func (c *cli) dictate(cmd *cobra.Command) (string, error) {
	ctx := cmd.Context()
	adapter := c.client.Speech
	c.speech.drain()

	texts := make(chan string, 1)
	errs := make(chan *speech.Error, 1)
	adapter.Start(
		func(text string) { texts <- text },
		func(err *speech.Error) { errs <- err },
	)

	select {
	case t := <-texts:
		return t, nil
	case e := <-errs:
		return "", e
	case <-c.speech.ended:
		// Callbacks run before OnEnd, so anything produced is already buffered.
		select {
		case t := <-texts:
			return t, nil
		case e := <-errs:
			return "", e
		default:
			return "", errNothingHeard
		}
	case <-ctx.Done():
		adapter.Stop()
		return "", ctx.Err()
	}
}

func listenCmd(cl *cli) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Capture one utterance and print the transcript",
		RunE: func(cmd *cobra.Command, _ []string) error {
			text, err := cl.dictate(cmd)
			if err != nil {
				return err
			}
			if !raw {
				text = domain.NormalizeTranscript(text)
			}
			if cl.jsonOut {
				return cl.emitJSON(cmd.OutOrStdout(), map[string]string{"transcript": text})
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the transcript without whitespace normalization")
	return cmd
}
