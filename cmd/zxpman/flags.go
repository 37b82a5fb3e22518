package main

import (
	"fmt"

	"github.com/cepkit/zxpman/pkg/zxpman/output"
	"github.com/spf13/viper"
)

// getFormatter resolves the output formatter from the --output and
// --template flags. The default format is pretty.
func getFormatter() (output.Formatter, error) {
	outFormat := viper.GetString("output")
	if outFormat == "" {
		outFormat = "pretty"
	}

	if outFormat == "template" {
		tmplStr := viper.GetString("template")
		if tmplStr == "" {
			return nil, fmt.Errorf("--template is required when using -o template")
		}
		return output.NewTemplateFormatter(tmplStr), nil
	}

	formatter, err := output.Get(outFormat)
	if err != nil {
		return nil, fmt.Errorf("unknown output format %q: available formats are %v", outFormat, output.Available())
	}

	return formatter, nil
}
