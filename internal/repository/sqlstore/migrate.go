package sqlstore

import (
	"context"
	"fmt"
)

// migrations create the tables in dependency order. Every statement is
// idempotent.
var migrations = []struct {
	table string
	ddl   string
}{
	{"DEPT", `
		CREATE TABLE IF NOT EXISTS DEPT (
			DepID INT PRIMARY KEY,
			D_NAME VARCHAR(50),
			FLOOR INT,
			TELEPHONE VARCHAR(15)
		)`},
	{"DOCTOR", `
		CREATE TABLE IF NOT EXISTS DOCTOR (
			DID INT PRIMARY KEY,
			F_NAME VARCHAR(50),
			L_NAME VARCHAR(50),
			SPEC VARCHAR(50),
			PH VARCHAR(15),
			EMAIL VARCHAR(100)
		)`},
	{"PATIENT", `
		CREATE TABLE IF NOT EXISTS PATIENT (
			PID INT PRIMARY KEY,
			F_NAME VARCHAR(50),
			L_NAME VARCHAR(50),
			DOB DATE,
			PH VARCHAR(15),
			EMAIL VARCHAR(100)
		)`},
	{"APPOINTMENT", `
		CREATE TABLE IF NOT EXISTS APPOINTMENT (
			AID INT PRIMARY KEY,
			PID INT,
			DID INT,
			A_DATE DATE,
			A_TIME TIME,
			DepID INT,
			FOREIGN KEY (PID) REFERENCES PATIENT(PID),
			FOREIGN KEY (DID) REFERENCES DOCTOR(DID),
			FOREIGN KEY (DepID) REFERENCES DEPT(DepID)
		)`},
	{"MED_RECORD", `
		CREATE TABLE IF NOT EXISTS MED_RECORD (
			RID INT PRIMARY KEY,
			PID INT,
			DID INT,
			LAST_VISIT DATE,
			DIAGNOSIS TEXT,
			FOREIGN KEY (PID) REFERENCES PATIENT(PID),
			FOREIGN KEY (DID) REFERENCES DOCTOR(DID)
		)`},
}

// Migrate creates any missing tables.
func (s *Store) Migrate(ctx context.Context) error {
	for _, m := range migrations {
		if _, err := s.db.ExecContext(ctx, m.ddl); err != nil {
			return fmt.Errorf("failed to create table %s: %w", m.table, err)
		}
		s.logger.Debug("table ready", "table", m.table)
	}
	return nil
}
