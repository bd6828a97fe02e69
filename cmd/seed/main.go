package main

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	propsvc "consignado-backend/internal/application/propostas"
	"consignado-backend/internal/config"
	"consignado-backend/internal/infrastructure/database"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const seedCount = 10

var nomes = []string{
	"Maria da Silva", "João Pereira", "Ana Souza", "Carlos Oliveira",
	"Fernanda Lima", "Pedro Santos", "Juliana Costa", "Rafael Almeida",
	"Camila Rodrigues", "Lucas Ferreira", "Beatriz Martins", "Gustavo Rocha",
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load")
	}
	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL not configured")
	}
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database open")
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	svc := &propsvc.Service{
		Store:      &propsvc.Store{DB: db},
		TaxaPadrao: cfg.TaxaJurosPadrao,
	}

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	ctx := context.Background()
	created := 0
	for created < seedCount {
		in := randomProposta(r)
		if _, err := svc.Create(ctx, in); err != nil {
			// Margin or duplicate-CPF rejections just get a new draw.
			if errors.Is(err, propsvc.ErrMargemExcedida) || errors.Is(err, propsvc.ErrCpfDuplicado) {
				continue
			}
			log.Fatal().Err(err).Msg("seed create failed")
		}
		created++
	}
	log.Info().Int("count", created).Msg("Seed finished")
}

func randomProposta(r *rand.Rand) propsvc.CreatePropostaInput {
	salario := 1500 + r.Float64()*8500
	valor := 1000 + r.Float64()*49000
	prazo := 6 + r.Intn(55)
	return propsvc.CreatePropostaInput{
		ClienteNome:     nomes[r.Intn(len(nomes))],
		ClienteCpf:      randomCpf(r),
		ClienteSalario:  decimal.NewFromFloat(salario).Round(2),
		ValorSolicitado: decimal.NewFromFloat(valor).Round(2),
		PrazoMeses:      prazo,
	}
}

// randomCpf draws 9 random digits and appends the two weighted mod-11 check
// digits, so every generated CPF passes validation.
func randomCpf(r *rand.Rand) string {
	d := make([]int, 11)
	for i := 0; i < 9; i++ {
		d[i] = r.Intn(10)
	}
	for t := 9; t < 11; t++ {
		sum := 0
		for i := 0; i < t; i++ {
			sum += d[i] * (t + 1 - i)
		}
		d[t] = ((10 * sum) % 11) % 10
	}
	var b strings.Builder
	for _, v := range d {
		b.WriteByte(byte('0' + v))
	}
	return b.String()
}
