package main

import (
	"fmt"
	"os"

	"github.com/dataqueryai/dataquery/cmd/cli/auth"
	"github.com/dataqueryai/dataquery/cmd/cli/data"
	"github.com/dataqueryai/dataquery/cmd/cli/root"
)

func main() {
	rootCmd := root.GetRoot()
	auth.InitAuth(rootCmd)
	data.InitData(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
