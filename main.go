package main

import (
	"github.com/domilx/Conductor/internal/cmdlets"
)

func main() {
	cmdlets.Entrypoint()
}
