package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kingrain94/restaurant-saas/internal/domain"
)

// Tails the live order stream of one restaurant, the way a kitchen dashboard does.
func main() {
	url := flag.String("url", "ws://localhost:3000/api/orders/stream", "Order stream URL")
	host := flag.String("host", "", "Restaurant host, e.g. beirut-bites.example.com")
	token := flag.String("token", "", "JWT of a staff member of the restaurant")
	flag.Parse()

	if *token == "" {
		log.Fatal("Usage: websocket_client -token <JWT_TOKEN> [-host <restaurant host>] [-url <stream url>]")
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+*token)
	if *host != "" {
		header.Set("Host", *host)
	}

	fmt.Printf("Connecting to %s...\n", *url)
	conn, _, err := websocket.DefaultDialer.Dial(*url, header)
	if err != nil {
		log.Fatal("Failed to connect:", err)
	}
	defer conn.Close()
	conn.SetPingHandler(func(appData string) error {
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(time.Second))
	})

	fmt.Println("Connected! Waiting for orders...")
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			printEvent(message)
		}
	}()

	select {
	case <-done:
		return
	case <-interrupt:
		fmt.Println("\nDisconnecting...")

		err := conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		if err != nil {
			log.Println("Write close:", err)
			return
		}
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	}
}

func printEvent(message []byte) {
	var event domain.OrderEvent
	if err := json.Unmarshal(message, &event); err != nil || event.OrderID == "" {
		fmt.Printf("%s\n", message)
		return
	}
	fmt.Printf("[%s] %s order %s is %s (%.2f)\n",
		event.At.Local().Format("15:04:05"),
		event.Type, event.OrderNumber, event.Status, event.Total)
}
