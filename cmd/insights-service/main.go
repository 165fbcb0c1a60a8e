package main

import (
	"os"

	"github.com/readraise/insights/insightsservice"
)

func main() {
	if err := insightsservice.Run(); err != nil {
		os.Exit(1)
	}
}
