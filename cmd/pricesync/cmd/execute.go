package cmd

import (
	"errors"
	"fmt"
	"os"
)

var errConfig = errors.New("configuration error")

func Execute() int {
	root := newRootCmd()
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errConfig) {
			return 2
		}
		return 1
	}
	return 0
}
