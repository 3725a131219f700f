package infra

import (
	"fmt"

	"github.com/Fer-Psy/tr4cking/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (partial unique indexes).
//
// TranslateError is on so constraint violations surface as
// gorm.ErrDuplicatedKey; the services re-map those to domain errors instead of
// leaking SQLSTATEs.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations applies AutoMigrate plus schema patches. Integration tests
// call this against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Persona{},
		&model.Empresa{},
		&model.Bus{},
		&model.Parada{},
		&model.Viaje{},
		&model.Timbrado{},
		&model.SesionCaja{},
		&model.Pasaje{},
		&model.Encomienda{},
		&model.Factura{},
		&model.DetalleFactura{},
		&model.MovimientoCaja{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// The partial unique indexes carry two core invariants:
//   - at most one open sesión de caja per cajero
//   - at most one active pasaje per (viaje, asiento); cancelled and no-show
//     seats do not block a resale
//
// Each statement is guarded by an existence check so re-running on an
// already-patched schema is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"one open session per cajero", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uni_sesiones_caja_abierta') THEN
    CREATE UNIQUE INDEX uni_sesiones_caja_abierta
        ON sesiones_caja (cajero_id)
        WHERE estado = 'abierta';
  END IF;
END $$`},
		{"one active pasaje per seat", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uni_pasajes_asiento_activo') THEN
    CREATE UNIQUE INDEX uni_pasajes_asiento_activo
        ON pasajes (viaje_id, numero_asiento)
        WHERE estado IN ('reservado', 'vendido', 'abordado');
  END IF;
END $$`},
		{"expiry sweep lookup", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_pasajes_reserva_vencimiento') THEN
    CREATE INDEX idx_pasajes_reserva_vencimiento
        ON pasajes (expira_en)
        WHERE estado = 'reservado' AND expira_en IS NOT NULL;
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
