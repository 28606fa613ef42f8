package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"backoffice/internal/infrastructure/migrations"
)

const defaultTestDSN = "root:@tcp(localhost:3306)/backoffice_test?parseTime=true&multiStatements=true&clientFoundRows=true"

func testDSN() string {
	if dsn := os.Getenv("TEST_DB_DSN"); dsn != "" {
		return dsn
	}
	return defaultTestDSN
}

// SetupTestDB configura una base de datos de prueba
// Espera una BD MySQL en localhost:3306 llamada 'backoffice_test' (o TEST_DB_DSN)
func SetupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("mysql", testDSN())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// Verify connection
	err = db.Ping()
	if err != nil {
		db.Close()
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB limpia la BD de prueba
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"Pedido", "Compras", "Financeiro", "Estoque", "Produto", "Cliente", "Fornecedor", "Usuario"}
	for _, table := range tables {
		_, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables aplica las migraciones sobre una conexión propia,
// porque el driver de migrate cierra la conexión que recibe
func SetupTestTables(t *testing.T, db *sql.DB) {
	migrationDB, err := sql.Open("mysql", testDSN())
	if err != nil {
		t.Fatalf("failed to open migration connection: %v", err)
	}

	m, err := migrations.New(migrationDB, zap.NewNop())
	if err != nil {
		migrationDB.Close()
		t.Fatalf("failed to create migrator: %v", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}
}

// SeedUser inserta un usuario y devuelve su id
func SeedUser(t *testing.T, db *sql.DB, email, company string) int64 {
	result, err := db.Exec(
		`INSERT INTO Usuario (nome, email, senha, tipo, empresa) VALUES (?, ?, ?, ?, ?)`,
		"Test User", email, "not-a-real-hash", "admin", company,
	)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read seeded user id: %v", err)
	}
	return id
}
