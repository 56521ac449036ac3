// Package client provides a Go SDK for the admin API (see internal/adminapi).
//
// # Basic Usage
//
//	c, err := client.New("http://localhost:8081")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	id, err := c.AddTask(ctx, "echo hi", "", 0)
//
// # WebSocket Events
//
//	if err := c.ConnectWebSocket(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer c.CloseWebSocket()
//
//	for event := range c.Events() {
//	    fmt.Printf("event: %s\n", event.Type)
//	}
//
// # Configuration
//
// The client supports functional options for configuration:
//
//	c, err := client.New("http://localhost:8081",
//	    client.WithAPIKey("your-token"),
//	    client.WithTimeout(30*time.Second),
//	)
package client
