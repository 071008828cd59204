// seed importa el catálogo de productos de una empresa desde un CSV exportado del sistema
// administrativo anterior (Windows-1252, separado por ';').
//
// Uso: go run ./cmd/seed <id_empresa> [ruta/productos.csv]
// Por defecto lee productos.csv del directorio actual. Los códigos ya existentes se omiten.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jhoicas/facturacion-ve/internal/application/usecase"
	"github.com/jhoicas/facturacion-ve/internal/domain"
	"github.com/jhoicas/facturacion-ve/internal/infrastructure/postgres"
	"github.com/jhoicas/facturacion-ve/pkg/config"
	"github.com/jhoicas/facturacion-ve/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: seed <id_empresa> [productos.csv]")
		os.Exit(2)
	}
	companyID := os.Args[1]
	csvPath := "productos.csv"
	if len(os.Args) > 2 {
		csvPath = os.Args[2]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed")

	f, err := os.Open(csvPath)
	if err != nil {
		log.Fatal().Err(err).Str("archivo", csvPath).Msg("abrir CSV")
	}
	defer f.Close()

	products, err := readCatalog(f)
	if err != nil {
		log.Fatal().Err(err).Msg("leer catálogo")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	company, err := postgres.NewCompanyRepository(pool).GetByID(ctx, companyID)
	if err != nil || company == nil {
		log.Fatal().Err(err).Str("empresa", companyID).Msg("empresa no encontrada")
	}

	uc := usecase.NewProductUseCase(postgres.NewProductRepository(pool))
	var created, skipped int
	for _, p := range products {
		_, err := uc.Create(ctx, companyID, p)
		switch {
		case err == nil:
			created++
		case errors.Is(err, domain.ErrDuplicate):
			skipped++
		default:
			log.Warn().Err(err).Str("codigo", p.Code).Msg("producto rechazado")
			skipped++
		}
	}
	log.Info().
		Str("empresa", company.Name).
		Int("creados", created).
		Int("omitidos", skipped).
		Msg("catálogo importado")
}
