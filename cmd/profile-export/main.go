package main

// #region imports
import (
	"flag"
	"fmt"
	"os"

	"github.com/Winckwu/Interview-GenAI-sub003/internal/config"
)

// #endregion

// #region main

// profile-export writes the default tuning profile as yaml so operators
// can edit the numeric domain model without touching code.
func main() {
	outPath := flag.String("out", "profile.yaml", "where to write the default profile")
	flag.Parse()

	if err := config.Save(config.DefaultProfile(), *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote default tuning profile to %s\n", *outPath)
}

// #endregion main
