package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/common"
)

var version = "dev"

func main() {
	handler := cli.NewInterruptHandler(os.Stderr)
	ctx, cancel := handler.HandleInterrupts(context.Background())

	err := newRootCmd(newApp(os.Stdin, os.Stdout)).ExecuteContext(ctx)
	cancel()

	if err != nil {
		if !common.IsUserFacing(err) && !handler.WasInterrupted() {
			common.LogError(err, "command failed", common.Fields{"version": version})
		}
		fmt.Fprintln(os.Stderr, cli.FormatError(err.Error()))
		os.Exit(1)
	}
}
