//go:build !unix

package main

import "os/exec"

// Without process groups only the direct child can be killed; the default
// exec.CommandContext cancel already does that.
func setProcessGroup(cmd *exec.Cmd) {}

func killProcessGroup(cmd *exec.Cmd) {}
