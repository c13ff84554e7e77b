// feedgen publishes synthetic change-feed events so the invalidation
// path can be exercised without the real data service.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
)

type Generator struct {
	writer    *kafka.Writer
	isRunning atomic.Bool
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	totalSent atomic.Int64
}

type StartRequest struct {
	Rate     int    `json:"rate"`
	Duration string `json:"duration"`
}

func NewGenerator(brokers []string, topic string) *Generator {
	ctx, cancel := context.WithCancel(context.Background())

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
	}

	return &Generator{
		writer: writer,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (g *Generator) Start(rate int, duration time.Duration) {
	if g.isRunning.Load() {
		return
	}
	g.isRunning.Store(true)
	g.totalSent.Store(0)

	log.Printf("generating change events: rate=%d msg/s, duration=%v", rate, duration)

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer g.isRunning.Store(false)

		ticker := time.NewTicker(time.Second / time.Duration(rate))
		defer ticker.Stop()

		timer := time.NewTimer(duration)
		defer timer.Stop()

		for {
			select {
			case <-ticker.C:
				value, err := json.Marshal(randomEvent())
				if err != nil {
					log.Printf("marshal error: %v", err)
					continue
				}

				if err := g.writer.WriteMessages(g.ctx, kafka.Message{
					Value: value,
					Time:  time.Now(),
				}); err != nil {
					log.Printf("write error: %v", err)
				} else {
					g.totalSent.Add(1)
				}

			case <-timer.C:
				log.Printf("run completed, total sent: %d", g.totalSent.Load())
				return

			case <-g.ctx.Done():
				log.Printf("run stopped, total sent: %d", g.totalSent.Load())
				return
			}
		}
	}()
}

func (g *Generator) Stop() {
	if g.isRunning.Load() {
		g.cancel()
		g.wg.Wait()
		g.ctx, g.cancel = context.WithCancel(context.Background())
	}
}

func (g *Generator) Close() {
	g.Stop()
	_ = g.writer.Close()
}

func randomEvent() map[string]string {
	resources := []string{"orders", "products", "ingredients"}
	resource := resources[rand.Intn(len(resources))]
	return map[string]string{
		"resource": resource,
		"id":       fmt.Sprintf("%s-%d", resource[:1], rand.Intn(10000)),
	}
}

func main() {
	brokers := []string{"kafka:9092"}
	if envBrokers := os.Getenv("KAFKA_BROKERS"); envBrokers != "" {
		brokers = []string{envBrokers}
	}

	topic := "merchops.changes"
	if envTopic := os.Getenv("KAFKA_TOPIC"); envTopic != "" {
		topic = envTopic
	}

	gen := NewGenerator(brokers, topic)
	defer gen.Close()

	http.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req StartRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if req.Rate <= 0 {
			req.Rate = 10
		}
		duration, err := time.ParseDuration(req.Duration)
		if err != nil {
			http.Error(w, "Invalid duration format: "+err.Error(), http.StatusBadRequest)
			return
		}

		gen.Start(req.Rate, duration)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":   "started",
			"rate":     req.Rate,
			"duration": duration.String(),
		})
	})

	http.HandleFunc("/stop", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		gen.Stop()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":     "stopped",
			"total_sent": gen.totalSent.Load(),
		})
	})

	http.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"is_running": gen.isRunning.Load(),
			"total_sent": gen.totalSent.Load(),
		})
	})

	port := ":8082"
	if envPort := os.Getenv("FEEDGEN_PORT"); envPort != "" {
		port = ":" + envPort
	}

	log.Printf("feedgen listening on %s", port)
	log.Fatal(http.ListenAndServe(port, nil))
}
