package cmd

import (
	"github.com/etnz/ledger/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the bean command line for shell completion.
func Completion() *complete.Command {
	mapping := predict.Files("*.yaml")
	export := predict.Files("*.json")
	exportCmd := func(flags map[string]complete.Predictor) *complete.Command {
		flags["m"] = mapping
		return &complete.Command{Flags: flags, Args: export}
	}

	topics, _ := docs.GetAllTopics()
	return &complete.Command{
		Sub: map[string]*complete.Command{
			"import":   exportCmd(map[string]complete.Predictor{"o": predict.Files("*.beancount")}),
			"print":    exportCmd(map[string]complete.Predictor{"o": predict.Files("*.beancount")}),
			"check":    exportCmd(map[string]complete.Predictor{}),
			"accounts": exportCmd(map[string]complete.Predictor{"d": predict.Something}),
			"topic":    {Args: predict.Set(topics)},
			"help":     {},
			"flags":    {},
			"commands": {},
		},
	}
}
