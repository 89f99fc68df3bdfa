package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	root := buildRoot()
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "svcview:", err)
		os.Exit(1)
	}
}

// GlobalFlags holds the flags shared by every command
type GlobalFlags struct {
	ConfigPath string
	LogLevel   string
}

// ViewFlags holds the flags of the list command
type ViewFlags struct {
	Services string
	Once     bool
}

func buildRoot() *cobra.Command {
	var global GlobalFlags
	var view ViewFlags

	root := &cobra.Command{
		Use:   "svcview",
		Short: "Show the state of operating system services",
		Long: `svcview lists systemd units or Windows services and shows whether each
one is running, together with its command line, type and account.

Pass a comma separated list of names, or :all_services for every service.`,
		Example: `  svcview --services sshd,cron
  svcview -s :all_services --once`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, global, view)
		},
	}

	root.PersistentFlags().StringVar(&global.ConfigPath, "config", "", "config file (default searches the user config dir and .)")
	root.PersistentFlags().StringVar(&global.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	root.Flags().StringVarP(&view.Services, "services", "s", "", "comma separated service names, or :all_services")
	root.Flags().BoolVar(&view.Once, "once", false, "print one table and exit instead of opening the interactive list")

	root.AddCommand(newHistoryCmd(&global))
	return root
}
