// Command client is a presence probe: it joins the stage like a game page
// would, or asks the admin RPC who is currently on stage.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/rpc"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wfunc/improvbattle/network"
	"github.com/wfunc/improvbattle/player"
	gameserver_rpc "github.com/wfunc/improvbattle/rpc"
)

func main() {
	host := flag.String("host", "localhost:8080", "game server host:port")
	name := flag.String("name", player.DefaultName.String(), "player name to join as")
	heartbeat := flag.Duration("heartbeat", 15*time.Second, "heartbeat interval")
	rpcAddr := flag.String("rpc", "", "admin RPC address; lists online players and exits")
	flag.Parse()

	if *rpcAddr != "" {
		listOnline(*rpcAddr)
		return
	}
	join(*host, *name, *heartbeat)
}

func listOnline(addr string) {
	client, err := rpc.Dial("tcp", addr)
	if err != nil {
		log.Fatalf("Dial RPC failed: %v", err)
	}
	defer client.Close()

	var reply gameserver_rpc.OnlineReply
	if err := client.Call("PresenceService.Online", &gameserver_rpc.OnlineArgs{}, &reply); err != nil {
		log.Fatalf("PresenceService.Online failed: %v", err)
	}
	log.Printf("%d on stage", len(reply.Players))
	for _, p := range reply.Players {
		log.Printf("  %s  %q  since %s", p.SessionID, p.PlayerName, p.ConnectedAt.Format(time.RFC3339))
	}
}

// send formats and sends a message to the WebSocket server.
func send(c *websocket.Conn, msgID uint16) error {
	packet, err := network.Encode(msgID, nil)
	if err != nil {
		return err
	}
	return c.WriteMessage(websocket.BinaryMessage, packet)
}

func join(host, name string, heartbeat time.Duration) {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	u := url.URL{Scheme: "ws", Host: host, Path: "/ws", RawQuery: url.Values{player.QueryKey: {name}}.Encode()}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			packet, err := network.Decode(message)
			if err != nil {
				log.Printf("Received invalid packet of size %d", len(message))
				continue
			}
			if packet.MsgID != network.MsgTypePresence {
				log.Printf("<- RECV (ID: %d): %s", packet.MsgID, string(packet.Data))
				continue
			}
			var update network.PresenceUpdate
			if err := json.Unmarshal(packet.Data, &update); err != nil {
				log.Printf("Bad presence payload: %v", err)
				continue
			}
			log.Printf("<- %d on stage", update.Online)
		}
	}()

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := send(c, network.MsgTypeHeartbeat); err != nil {
				log.Println("Write error:", err)
				return
			}
		case <-interrupt:
			log.Println("Interrupt received, leaving.")
			if err := send(c, network.MsgTypeLeave); err != nil {
				log.Println("Write leave error:", err)
			}
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		}
	}
}
