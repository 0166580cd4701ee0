package main

import(
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/abworrall/radiocal/cmd/radiocal/cmd"
)

var(
	GitSHA string = "NA"
)

func main() {
	// ctrl-c stops the run between patches; a second one kills it
	ctx, cnc := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cnc()
	go func() {
		defer cnc()
		<-ctx.Done()
	}()

	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := cmd.NewRoot(ctx, GitSHA).Execute(); err != nil {
		os.Exit(1)
	}
}
