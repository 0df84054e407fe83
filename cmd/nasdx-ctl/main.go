package main

import (
	"fmt"
	"os"
	"strings"

	cli "github.com/spf13/pflag"

	"github.com/Sokio8M1/NASDX-Mrk-II/internal/ipc"
)

func main() {
	socketPath := cli.StringP("socket", "s", ipc.DefaultSocketPath, "Control socket path")
	cli.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: nasdx-ctl [flags] <trigger|interrupt|mute|unmute|status|say ...>")
		cli.PrintDefaults()
	}
	cli.Parse()

	args := cli.Args()
	if len(args) == 0 {
		cli.Usage()
		os.Exit(2)
	}

	req := ipc.Request{Cmd: args[0]}
	if req.Cmd == "say" {
		req.Arg = strings.Join(args[1:], " ")
	}

	resp, err := ipc.Send(*socketPath, req)
	if err != nil {
		fmt.Fprintln(os.Stderr, "nasdx daemon not running:", err)
		os.Exit(1)
	}
	if resp.Err != "" {
		fmt.Fprintln(os.Stderr, resp.Err)
		os.Exit(1)
	}

	switch req.Cmd {
	case "status":
		fmt.Printf("state: %s\nmuted: %v\nbackend: %s\n", resp.State, resp.Muted, resp.Backend)
	case "say":
		for _, l := range resp.Lines {
			fmt.Println(l)
		}
	default:
		fmt.Println("ok")
	}
}
