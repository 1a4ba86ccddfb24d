// main.go
//
// Entry point; the Cobra commands live in cmd/.

package main

import (
	"github.com/queuecost/staffsim/cmd"
)

func main() {
	cmd.Execute()
}
