package worker

// reserva_cron.go
// Background goroutine that periodically cancels seat reservations whose
// hold window expired without payment, freeing the seats for sale.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	reservaTickInterval = time.Minute
	reservaBatchSize    = 50
)

// ReservaExpirer cancels expired reservations in batches and reports how
// many were swept. Implemented by the pasaje service.
type ReservaExpirer interface {
	ExpirarReservas(ctx context.Context, limit int) (int, error)
}

// StartReservaCron launches a background goroutine that ticks every minute
// and sweeps expired reservations. It respects the context for graceful
// shutdown.
func StartReservaCron(ctx context.Context, expirer ReservaExpirer) {
	go func() {
		ticker := time.NewTicker(reservaTickInterval)
		defer ticker.Stop()

		log.Info().Msg("reserva_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("reserva_cron: shutting down")
				return
			case <-ticker.C:
				n, err := expirer.ExpirarReservas(ctx, reservaBatchSize)
				if err != nil {
					log.Error().Err(err).Msg("reserva_cron: sweep failed")
					continue
				}
				if n > 0 {
					log.Info().Int("canceladas", n).Msg("reserva_cron: reservas vencidas liberadas")
				}
			}
		}
	}()
}
