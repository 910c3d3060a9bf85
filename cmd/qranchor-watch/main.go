// qranchor-watch follows a running qranchor server from the terminal and
// can send it commands.
//
//	qranchor-watch -server http://localhost:8080 status
//	qranchor-watch scene
//	qranchor-watch send rotate_left
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/teslashibe/go-qranchor/internal/log"
	"github.com/teslashibe/go-qranchor/pkg/remote"
	"github.com/teslashibe/go-qranchor/pkg/scene"
	"github.com/teslashibe/go-qranchor/pkg/web"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "qranchor server URL")
	logLevel := flag.String("log-level", "warn", "Log level: debug, info, warn, error")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] status|scene|logs|actions|send <command>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	log.Init(*logLevel)

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	c := remote.New(*server)
	enc := json.NewEncoder(os.Stdout)

	var err error
	switch flag.Arg(0) {
	case "status":
		err = c.WatchStatus(ctx, func(st web.State) {
			fmt.Printf("%-12s %-9s models=%d payload=%q %s\n",
				st.Info.Presence, st.Info.Tracking, st.Info.Models, st.Info.Payload, st.Message)
		})
	case "scene":
		err = c.WatchScene(ctx, func(snap scene.Snapshot) {
			for _, o := range snap.Objects {
				fmt.Printf("%s %s pos=(%.2f %.2f %.2f) yaw=%.2f\n",
					o.ID, o.Name, o.Position[0], o.Position[1], o.Position[2], o.Rotation.Y)
			}
		})
	case "logs":
		err = c.WatchLogs(ctx, func(e web.LogEntry) {
			fmt.Printf("%s %-5s %s\n", e.Time, e.Level, e.Message)
		})
	case "actions":
		err = c.WatchActions(ctx, func(a scene.Action) {
			_ = enc.Encode(a)
		})
	case "send":
		if flag.NArg() < 2 {
			flag.Usage()
			os.Exit(2)
		}
		var res web.CommandResult
		res, err = c.Send(ctx, web.Command{Type: flag.Arg(1)})
		if err == nil {
			_ = enc.Encode(res)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil && ctx.Err() == nil {
		log.Error("watch failed", "error", err)
		os.Exit(1)
	}
}
