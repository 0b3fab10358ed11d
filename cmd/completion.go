package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/install"
	"github.com/posener/complete/v2/predict"

	"github.com/etnz/analyzer/config"
	"github.com/etnz/analyzer/docs"
)

// Completion returns the shell completion of the global flags and of every subcommand.
//
// A main package calls Completion().Complete(name) before parsing the flags: it answers the
// completion requests of the shell and returns otherwise.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagPredictors(flag.CommandLine),
	}
	root.Flags["config"] = predict.Files("*.yaml")
	root.Flags["provider"] = predict.Set(config.Providers)
	for _, c := range commands() {
		fs := flag.NewFlagSet(c.cmd.Name(), flag.ContinueOnError)
		c.cmd.SetFlags(fs)
		sub := &complete.Command{Flags: flagPredictors(fs)}
		switch c.cmd.Name() {
		case "topic":
			topics, _ := docs.GetAllTopics()
			sub.Args = predict.Set(topics)
		case "project":
			sub.Flags["f"] = predict.Files("*.json")
		case "analyze":
			sub.Flags["chart"] = predict.Files("*.png")
		}
		root.Sub[c.cmd.Name()] = sub
	}
	return root
}

// flagPredictors predicts nothing after a boolean flag and something after the others.
func flagPredictors(fs *flag.FlagSet) map[string]complete.Predictor {
	out := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			out[f.Name] = predict.Nothing
			return
		}
		out[f.Name] = predict.Something
	})
	return out
}

type completionCmd struct {
	uninstall bool
}

func (*completionCmd) Name() string     { return "completion" }
func (*completionCmd) Synopsis() string { return "install the shell completion" }
func (*completionCmd) Usage() string {
	return `completion [-uninstall]

  Installs, or uninstalls, the completion of this command in the shell configuration files.
`
}

func (c *completionCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.uninstall, "uninstall", false, "uninstall the completion instead")
}

func (c *completionCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	name := path.Base(os.Args[0])
	action, run := "installed", install.Install
	if c.uninstall {
		action, run = "uninstalled", install.Uninstall
	}
	if err := run(name); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Completion of %s %s, restart your shell.\n", name, action)
	return subcommands.ExitSuccess
}
