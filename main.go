package main

import (
	"log"

	"github.com/talentgrid/assessment-recommender/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
