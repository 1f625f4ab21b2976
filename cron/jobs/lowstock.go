package jobs

import (
	"encoding/json"
	"log"

	"stockyard.GO/config"
	"stockyard.GO/cron"
	inventoryService "stockyard.GO/service/inventory"
)

func init() {
	cron.Register("lowstockscan", "@every 15m", LowStockScanJob)
}

// LowStockScanJob scans the catalog for materials at or below their reorder
// level, logs every alert and publishes the feed to the redis alert channel
// when redis is configured.
func LowStockScanJob(args ...string) {
	db, err := config.NewDB()
	if err != nil {
		log.Printf("lowstockscan: db: %v", err)
		return
	}

	engine := inventoryService.NewStatusEngine(db)
	alerts, err := engine.Alerts()
	if err != nil {
		log.Printf("lowstockscan: %v", err)
		return
	}

	for _, a := range alerts {
		log.Printf("lowstockscan: [%s] %s stock=%s reorder=%s", a.Severity, a.Code, a.CurrentStock, a.ReorderLevel)
	}
	if len(alerts) == 0 {
		log.Println("lowstockscan: no alerts")
		return
	}

	publishAlerts(alerts)
}

func publishAlerts(alerts []inventoryService.Alert) {
	if config.RedisClient == nil {
		return
	}
	payload, err := json.Marshal(alerts)
	if err != nil {
		log.Printf("lowstockscan: marshal: %v", err)
		return
	}
	if err := config.RedisClient.Publish(config.RedisCtx(), config.AlertChannel, payload).Err(); err != nil {
		log.Printf("lowstockscan: publish: %v", err)
	}
}
