package client_test

import (
	"context"
	"fmt"
	"log"

	"github.com/pratik-mahalle/arcgate/pkg/client"
)

// Example demonstrates a login followed by a core tier completion
func Example() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:3000",
	})

	ctx := context.Background()

	loginResp, err := c.Login(ctx, "user@example.com")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Logged in as: %s\n", loginResp.User.Email)

	out, err := c.ArcCore(ctx, "Write a haiku about Go")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(out.Text())
}

// ExampleClient_ArcPlus shows how a missing subscription is reported
func ExampleClient_ArcPlus() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:3000",
	})
	ctx := context.Background()

	if _, err := c.Login(ctx, "user@example.com"); err != nil {
		log.Fatal(err)
	}

	out, err := c.ArcPlus(ctx, "Summarise this contract")
	if apiErr, ok := client.AsAPIError(err); ok && apiErr.IsForbidden() {
		session, err := c.CreatePayment(ctx)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Subscribe first: checkout session %s\n", session.ID)
		return
	}
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(out.Text())
}
