// Command regdump prints the configuration and status registers of an
// MPU-6050, one row per register, for bring-up and debugging.
package main

import (
	"flag"
	"log"

	"github.com/BloodWalrus/mpu6050improved/drivers/mpu6050"
	"github.com/BloodWalrus/mpu6050improved/internal/config"
	"github.com/BloodWalrus/mpu6050improved/transport/periphbus"
)

// The registers this driver owns, in address order.
var registers = []struct {
	addr byte
	name string
	note string
}{
	{0x19, "SMPLRT_DIV", "sample rate divider"},
	{0x1A, "CONFIG", "DLPF_CFG bits 2:0"},
	{0x1B, "GYRO_CONFIG", "FS_SEL bits 4:3"},
	{0x1C, "ACCEL_CONFIG", "XA/YA/ZA_ST 7:5, AFS_SEL 4:3, ACCEL_HPF 2:0"},
	{0x1F, "MOT_THR", "motion threshold, 2 mg/LSB"},
	{0x20, "MOT_DUR", "motion duration, 1 ms/LSB"},
	{0x37, "INT_PIN_CFG", "interrupt pin behaviour"},
	{0x38, "INT_ENABLE", "MOT_EN bit 6"},
	{0x3A, "INT_STATUS", "MOT_INT bit 6, cleared by read"},
	{0x69, "MOT_DETECT_CTRL", "decrement rates, start-up delay"},
	{0x6B, "PWR_MGMT_1", "DEVICE_RESET 7, SLEEP 6, TEMP_DIS 3, CLKSEL 2:0"},
	{0x75, "WHO_AM_I", "expected 0x68"},
}

func main() {
	configPath := flag.String("config", "", "path to configuration file (optional)")
	flag.Parse()

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Get()

	bus, err := periphbus.Open(cfg.I2CBus)
	if err != nil {
		log.Fatalf("i2c open: %v", err)
	}
	defer bus.Close()

	dev, err := mpu6050.NewBuilder().Bus(bus).Addr(cfg.I2CAddr).Build()
	if err != nil {
		log.Fatalf("device build: %v", err)
	}

	ok, err := dev.Connected()
	if err != nil {
		log.Fatalf("identity probe: %v", err)
	}
	if !ok {
		log.Printf("WARNING: WHO_AM_I mismatch at 0x%02X, dumping anyway", cfg.I2CAddr)
	}

	for _, r := range registers {
		v, err := dev.ReadRegister(r.addr)
		if err != nil {
			log.Fatalf("read %s (0x%02X): %v", r.name, r.addr, err)
		}
		log.Printf("0x%02X %-16s = 0x%02X  %s", r.addr, r.name, v, r.note)
	}
}
