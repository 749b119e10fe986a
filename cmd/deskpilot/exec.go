package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/nadzzz/deskpilot/internal/config"
	"github.com/nadzzz/deskpilot/internal/dispatch"
	"github.com/nadzzz/deskpilot/internal/message"
	grpctransport "github.com/nadzzz/deskpilot/internal/transport/grpc"
)

var (
	grpcAddr   string
	runTimeout time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run <spoken command>",
	Short: "Classify and execute one free-form command",
	Long: `run sends free text through the configured classifier and executes the
result on this machine. With --grpc-addr the command is sent to a running
daemon instead.`,
	Example: `  deskpilot run "make a folder called Projects"
  deskpilot run --grpc-addr localhost:50051 "turn the volume up"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		setupCLILogging(cfg)
		text := strings.Join(args, " ")

		ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
		defer cancel()

		var (
			resp *message.Response
			err  error
		)
		if grpcAddr != "" {
			resp, err = runRemote(ctx, grpcAddr, text)
		} else {
			resp, err = runLocal(ctx, cfg, text)
		}
		if err != nil {
			return err
		}
		printResponse(cmd.OutOrStdout(), resp)
		return nil
	},
}

var execCmd = &cobra.Command{
	Use:   "exec <normalized command>",
	Short: "Execute one normalized command without a classifier",
	Example: `  deskpilot exec "CREATE FOLDER Projects"
  deskpilot exec "BRIGHTNESS SET 40"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		setupCLILogging(cfg)
		interp, err := newInterpreter(cfg)
		if err != nil {
			return err
		}
		res := interp.Execute(cmd.Context(), strings.Join(args, " "))
		fmt.Fprintln(cmd.OutOrStdout(), res.Render())
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&grpcAddr, "grpc-addr", "", "send the command to a running daemon at host:port")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 60*time.Second, "overall deadline for the command")
}

// setupCLILogging keeps one-shot commands quiet unless -v is given.
func setupCLILogging(cfg *config.Config) {
	logging := cfg.Logging
	if !verbose {
		logging.Level = "warn"
	}
	logging.Format = "text"
	config.SetupLogging(logging)
}

func runLocal(ctx context.Context, cfg *config.Config, text string) (*message.Response, error) {
	classifier, err := newClassifier(ctx, cfg.Classifier)
	if err != nil {
		return nil, err
	}
	defer classifier.Close()

	interp, err := newInterpreter(cfg)
	if err != nil {
		return nil, err
	}
	d := dispatch.New(classifier, interp, nil)
	return d.Handle(ctx, &message.Request{
		Source:    "cli",
		Command:   text,
		Timestamp: time.Now(),
	}), nil
}

func runRemote(ctx context.Context, addr, text string) (*message.Response, error) {
	cc, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", addr, err)
	}
	defer cc.Close()

	resp, err := grpctransport.NewClient(cc).ProcessCommand(ctx, &grpctransport.CommandRequest{
		Command: text,
		Source:  "cli",
	})
	if err != nil {
		return nil, fmt.Errorf("process command: %w", err)
	}
	return resp, nil
}

func printResponse(w io.Writer, resp *message.Response) {
	if verbose && resp.Normalized != "" {
		fmt.Fprintf(w, "[%s] %s\n", resp.Kind, resp.Normalized)
	}
	fmt.Fprintln(w, resp.Response)
}
