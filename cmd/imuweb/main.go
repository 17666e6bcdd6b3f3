// Command imuweb serves live MPU-6050 readings over HTTP: a one-shot JSON
// endpoint at /api/imu and a websocket stream at /ws.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/BloodWalrus/mpu6050improved/drivers/mpu6050"
	"github.com/BloodWalrus/mpu6050improved/internal/config"
	"github.com/BloodWalrus/mpu6050improved/internal/telemetry"
	"github.com/BloodWalrus/mpu6050improved/transport/periphbus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// server serializes access to the single-owner Device: the driver performs
// read-modify-write register pairs with no internal lock, so concurrent
// handlers must not touch it at the same time.
type server struct {
	mu       sync.Mutex
	dev      *mpu6050.Device
	interval time.Duration
}

func (s *server) sample() (telemetry.Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return telemetry.Collect(s.dev)
}

func (s *server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("imuweb: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()
	log.Printf("imuweb: websocket client connected: %s", r.RemoteAddr)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for range ticker.C {
		sample, err := s.sample()
		if err != nil {
			log.Printf("imuweb: sample error: %v", err)
			continue
		}
		if err := conn.WriteJSON(sample); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("imuweb: websocket error: %v", err)
			}
			return
		}
	}
}

func (s *server) handleAPI(w http.ResponseWriter, r *http.Request) {
	sample, err := s.sample()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(sample); err != nil {
		log.Printf("imuweb: encode error: %v", err)
	}
}

func main() {
	configPath := flag.String("config", "", "path to configuration file (optional)")
	flag.Parse()

	log.Println("starting MPU-6050 web streamer")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Get()

	bus, err := periphbus.Open(cfg.I2CBus)
	if err != nil {
		log.Fatalf("i2c open: %v", err)
	}
	defer bus.Close()

	dev, err := mpu6050.NewBuilder().
		Bus(bus).
		Addr(cfg.I2CAddr).
		Build()
	if err != nil {
		log.Fatalf("device build: %v", err)
	}
	if err := dev.Init(); err != nil {
		log.Fatalf("device init: %v", err)
	}

	srv := &server{
		dev:      dev,
		interval: time.Duration(cfg.SampleIntervalMS) * time.Millisecond,
	}
	http.HandleFunc("/ws", srv.handleWS)
	http.HandleFunc("/api/imu", srv.handleAPI)

	log.Printf("listening on %s", cfg.WebAddr)
	if err := http.ListenAndServe(cfg.WebAddr, nil); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
