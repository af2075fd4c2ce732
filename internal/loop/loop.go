// Package loop runs a single local game on the process terminal. Hosts
// serving many players build on loop/server and loop/client directly.
package loop

import (
	"bufio"
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/tomz197/gridsnake/internal/loop/client"
	"github.com/tomz197/gridsnake/internal/loop/server"
)

// Run plays one session reading keys from r and drawing to w. It returns
// when the player quits or ctx is cancelled.
func Run(ctx context.Context, r *bufio.Reader, w io.Writer, opts client.ClientOptions) error {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	srv := server.NewServer(opts.Logger)
	return client.NewClient(srv, r, w, opts).Run(ctx)
}
