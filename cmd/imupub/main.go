// Command imupub samples the MPU-6050 at a fixed interval and publishes
// converted readings as JSON over MQTT.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/BloodWalrus/mpu6050improved/drivers/mpu6050"
	"github.com/BloodWalrus/mpu6050improved/internal/config"
	"github.com/BloodWalrus/mpu6050improved/internal/telemetry"
	"github.com/BloodWalrus/mpu6050improved/transport/periphbus"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (optional)")
	flag.Parse()

	log.Println("starting MPU-6050 producer (sensor → MQTT)")

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
		AccelRange(mpu6050.AccelRange(cfg.AccelRange)).
		GyroRange(mpu6050.GyroRange(cfg.GyroRange)).
		Build()
	if err != nil {
		log.Fatalf("device build: %v", err)
	}
	if err := dev.Init(); err != nil {
		log.Fatalf("device init: %v", err)
	}

	// Init applies the default ranges; re-apply the configured ones.
	if err := dev.SetAccelRange(mpu6050.AccelRange(cfg.AccelRange)); err != nil {
		log.Fatalf("set accel range: %v", err)
	}
	log.Printf("accelerometer range set to %d (±%dg)", cfg.AccelRange, []int{2, 4, 8, 16}[cfg.AccelRange])
	if err := dev.SetGyroRange(mpu6050.GyroRange(cfg.GyroRange)); err != nil {
		log.Fatalf("set gyro range: %v", err)
	}
	log.Printf("gyroscope range set to %d (±%d°/s)", cfg.GyroRange, []int{250, 500, 1000, 2000}[cfg.GyroRange])

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientID)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalf("MQTT connect error: %v", token.Error())
	}
	defer client.Disconnect(250)

	log.Printf("connected to MQTT, publishing to %s every %d ms", cfg.MQTTTopic, cfg.SampleIntervalMS)

	ticker := time.NewTicker(time.Duration(cfg.SampleIntervalMS) * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		sample, err := telemetry.Collect(dev)
		if err != nil {
			log.Printf("sample error: %v", err)
			continue
		}
		payload, err := json.Marshal(sample)
		if err != nil {
			log.Printf("marshal error: %v", err)
			continue
		}
		client.Publish(cfg.MQTTTopic, 0, false, payload)
	}
}
