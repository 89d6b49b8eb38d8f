// Command migrate bootstraps the local development schema: the master
// ledger table and one send table per registered campaign source.
// Production tables are owned by the upstream operational systems; this
// exists so the service and its tests have something to run against.
package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/ignite/collections-monitor/internal/config"
)

const ledgerSchema = `
CREATE TABLE IF NOT EXISTS %s (
	id                  BIGSERIAL PRIMARY KEY,
	identifier          BIGINT NOT NULL,
	display_name        TEXT,
	phone               TEXT,
	conversation_ref    BIGINT,
	amount_past_due     NUMERIC(14,2) DEFAULT 0,
	amount_not_yet_due  NUMERIC(14,2) DEFAULT 0,
	remaining_past_due  NUMERIC(14,2) DEFAULT 0,
	days_past_due       INTEGER DEFAULT 0,
	receipt_sent        BOOLEAN DEFAULT FALSE,
	claims_already_paid BOOLEAN DEFAULT FALSE,
	call_again          BOOLEAN DEFAULT FALSE,
	payment_type        TEXT,
	commitment_date     DATE,
	state_tag           TEXT
);
CREATE INDEX IF NOT EXISTS idx_%s_identifier ON %s (identifier);
`

const sendSchema = `
CREATE TABLE IF NOT EXISTS %s (
	id          BIGSERIAL PRIMARY KEY,
	send_date   DATE NOT NULL,
	sent_count  INTEGER NOT NULL DEFAULT 0,
	identifiers TEXT[] NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_%s_send_date ON %s (send_date);
`

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	ledgerTable := cfg.Database.LedgerTable
	if ledgerTable == "" {
		ledgerTable = "master_ledger"
	}
	if _, err := db.Exec(fmt.Sprintf(ledgerSchema, ledgerTable, ledgerTable, ledgerTable)); err != nil {
		log.Fatalf("Failed to create ledger table %s: %v", ledgerTable, err)
	}
	log.Printf("Ledger table %s ready", ledgerTable)

	for _, src := range cfg.Sources {
		if _, err := db.Exec(fmt.Sprintf(sendSchema, src.Table, src.Table, src.Table)); err != nil {
			log.Fatalf("Failed to create send table %s: %v", src.Table, err)
		}
		log.Printf("Send table %s ready (campaign %q)", src.Table, src.Name)
	}

	log.Println("Migration complete")
}
