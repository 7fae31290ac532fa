// Command searchctl drives the search assistant engine from a terminal,
// in-process and against the simulated backend.
package main

import (
	"context"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jimmyqian/sovra-ui-sub000/internal/conversation"
	"github.com/jimmyqian/sovra-ui-sub000/internal/search/backend"
	"github.com/jimmyqian/sovra-ui-sub000/internal/search/service"
	"github.com/jimmyqian/sovra-ui-sub000/platform/logger"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// options are the persistent flags shared by every subcommand.
type options struct {
	seed     uint64
	latency  time.Duration
	pageSize int
	verbose  bool
	jsonOut  bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "searchctl",
		Short: "Run the search assistant engine from the terminal",
		Long: `searchctl runs searches, narrowing conversations and profile
dialogues against the simulated people-search backend.`,
		SilenceUsage: true,
	}

	f := root.PersistentFlags()
	f.Uint64Var(&opts.seed, "seed", 0, "random seed for generated data (0 picks one)")
	f.DurationVar(&opts.latency, "latency", 0, "simulated backend latency")
	f.IntVar(&opts.pageSize, "page-size", 10, "results per page")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log engine activity to stderr")
	f.BoolVar(&opts.jsonOut, "json", false, "print JSON instead of text")

	root.AddCommand(newSearchCmd(opts), newChatCmd(opts), newDetailCmd(opts))
	return root
}

// engine builds a fresh session for one command run.
func (o *options) engine(cmd *cobra.Command) *service.Service {
	seed := o.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	log := logger.Discard()
	if o.verbose {
		log = logger.NewWithWriter("development", cmd.ErrOrStderr())
	}

	mock := backend.NewMock(backend.MockOptions{
		SearchLatency: o.latency,
		UploadLatency: o.latency,
		Rand:          rand.New(rand.NewPCG(seed, 1)),
	})
	return service.New(service.Deps{
		Searcher: mock,
		Uploader: mock,
		Resolver: conversation.NewResolver(rand.New(rand.NewPCG(seed, 2))),
		Log:      log,
		PageSize: o.pageSize,
	})
}
