// Package main is the entry point for the StudyMate retrieval service.
package main

import (
	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/Rayyan1704/StudyMate/internal/studymate"
)

func main() {
	studymate.NewApp().Run()
}
