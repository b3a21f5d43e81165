package main

import (
	"github.com/clustersnap/clustersnap/pkg/cli"
)

func main() {
	cli.Execute()
}
