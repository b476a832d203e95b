package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"secure_chat/internal/service/app"
)

func main() {
	host := flag.String("host", "localhost:8000", "server host:port")
	flag.Parse()

	args := flag.Args()
	if len(args) != 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s [-host host:port] <username> <password> <peer>\n", os.Args[0])
		os.Exit(1)
	}
	username, password, peer := args[0], args[1], args[2]

	ctx := context.Background()

	a := app.NewApp(app.NewClient(*host))
	go func() {
		done := make(chan os.Signal, 1)
		signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)
		<-done
		a.Stop()
	}()

	a.Run(ctx, username, password, peer)
}
