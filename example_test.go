package redline_test

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aretw0/redline"
	"github.com/aretw0/redline/internal/adapters/browser"
)

// ExampleCoordinator_Review shows the typical embedding: open the review
// page in the local browser and block until the human decides.
func ExampleCoordinator_Review() {
	coord, err := redline.New(
		redline.WithPresenter(browser.New()),
		redline.WithTimeout(10*time.Minute),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer coord.Close(context.Background())

	result, err := coord.Review(context.Background(),
		"# Release plan\n\n- Ship feature X\n- Delete legacy endpoint",
		"Release plan")
	if err != nil {
		log.Fatal(err)
	}

	for _, item := range result.Items {
		status := "approved"
		if !item.Checked {
			status = "rejected"
		}
		fmt.Printf("%d. %s [%s] %s\n", item.ID, item.Text, status, item.Comment)
	}
}
