package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lumen-dev/lumen/internal/config"
)

func inspectCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the component tree of a running application",
		Long: `Query a running application's devtools server and print its mounted
component tree and open windows.

Examples:
  lumen inspect
  lumen inspect --addr=localhost:8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Devtools address (default from lumen.json)")

	return cmd
}

type treeResponse struct {
	Instances []struct {
		ID     string `json:"id"`
		Parent string `json:"parent"`
		Depth  int    `json:"depth"`
		Dirty  bool   `json:"dirty"`
	} `json:"instances"`
}

type signalsResponse struct {
	Signals []struct {
		Instance string   `json:"instance"`
		Slots    []string `json:"slots"`
	} `json:"signals"`
}

type windowsResponse struct {
	Windows []struct {
		Handle    uint64 `json:"handle"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
		Maximized bool   `json:"maximized"`
		Minimized bool   `json:"minimized"`
	} `json:"windows"`
}

func runInspect(addr string) error {
	if addr == "" {
		cfg, err := config.LoadFromWorkingDir()
		if err != nil {
			return err
		}
		addr = cfg.DevtoolsAddress()
	}

	client := &http.Client{Timeout: 5 * time.Second}
	base := "http://" + addr

	var tree treeResponse
	if err := getJSON(client, base+"/api/tree", &tree); err != nil {
		return fmt.Errorf("is the application running with devtools enabled? %w", err)
	}
	var signals signalsResponse
	if err := getJSON(client, base+"/api/signals", &signals); err != nil {
		return err
	}
	var windows windowsResponse
	if err := getJSON(client, base+"/api/windows", &windows); err != nil {
		return err
	}

	slotsByInstance := make(map[string][]string, len(signals.Signals))
	for _, sig := range signals.Signals {
		slotsByInstance[sig.Instance] = sig.Slots
	}

	fmt.Printf("Components (%d):\n", len(tree.Instances))
	sort.Slice(tree.Instances, func(i, j int) bool {
		if tree.Instances[i].Depth != tree.Instances[j].Depth {
			return tree.Instances[i].Depth < tree.Instances[j].Depth
		}
		return tree.Instances[i].ID < tree.Instances[j].ID
	})
	for _, inst := range tree.Instances {
		marker := ""
		if inst.Dirty {
			marker = " *"
		}
		hooks := ""
		if slots := slotsByInstance[inst.ID]; len(slots) > 0 {
			hooks = "  [" + strings.Join(slots, " ") + "]"
		}
		fmt.Printf("  %s%s%s%s\n", strings.Repeat("  ", inst.Depth), inst.ID, marker, hooks)
	}

	fmt.Printf("\nWindows (%d):\n", len(windows.Windows))
	for _, win := range windows.Windows {
		state := ""
		if win.Maximized {
			state = " maximized"
		}
		if win.Minimized {
			state = " minimized"
		}
		fmt.Printf("  #%d %dx%d%s\n", win.Handle, win.Width, win.Height, state)
	}

	return nil
}

func getJSON(client *http.Client, url string, v any) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %s", url, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
