// CarloCalendar is a self-hostable personal and shared calendar server.
package main

import (
	"os"

	"github.com/nothowstorygoes/carlocalendar/internal/app"
	log "github.com/sirupsen/logrus"
)

const defaultConfigPath = "./config/application.yaml"

func init() {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		log.SetLevel(log.InfoLevel)
		return
	}
	logrusLevel, err := log.ParseLevel(level)
	if err != nil {
		log.Fatalf("unknown LOG_LEVEL %q: %v", level, err)
	}
	log.SetLevel(logrusLevel)
}

func main() {
	configPath := os.Getenv("CARLOCAL_CONFIG")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	application, err := app.NewApplication(configPath)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	if err := application.Run(); err != nil {
		log.Fatal(err)
	}
}
