package propostas

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	propsvc "consignado-backend/internal/application/propostas"
	"consignado-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupPropostasTest(t *testing.T) (*fiber.App, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Proposta{}, &domain.PropostaEvent{}))

	svc := &propsvc.Service{
		Store:      &propsvc.Store{DB: db},
		TaxaPadrao: decimal.RequireFromString("2.5"),
	}
	h := &Handlers{Service: svc}

	app := fiber.New()
	grp := app.Group("/api/propostas")
	grp.Post("/create", h.Store)
	grp.Get("/", h.Index)
	grp.Get("/:id", h.Show)
	grp.Get("/:id/events", h.Events)
	grp.Patch("/:id/update", h.Update)
	grp.Patch("/:id/status", h.UpdateStatus)
	grp.Delete("/:id", h.Destroy)
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var req = httptest.NewRequest(method, path, nil)
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return resp.StatusCode, result
}

func createBody() map[string]interface{} {
	return map[string]interface{}{
		"cliente_nome":     "Maria da Silva",
		"cliente_cpf":      "529.982.247-25",
		"cliente_salario":  5000.00,
		"valor_solicitado": 10000.00,
		"prazo_meses":      24,
	}
}

func createProposta(t *testing.T, app *fiber.App) map[string]interface{} {
	t.Helper()
	status, result := doJSON(t, app, "POST", "/api/propostas/create", createBody())
	require.Equal(t, 201, status)
	return result["data"].(map[string]interface{})
}

func TestStore_CreatesProposta(t *testing.T) {
	app, _ := setupPropostasTest(t)

	status, result := doJSON(t, app, "POST", "/api/propostas/create", createBody())
	assert.Equal(t, 201, status)
	assert.Equal(t, true, result["success"])
	assert.Equal(t, "Proposta criada com sucesso!", result["message"])

	data := result["data"].(map[string]interface{})
	assert.Equal(t, "52998224725", data["cliente_cpf"])
	assert.Equal(t, "5000.00", data["cliente_salario"])
	assert.Equal(t, "559.13", data["valor_parcela"])
	assert.Equal(t, "13419.12", data["valor_total"])
	assert.Equal(t, "1500.00", data["margem_disponivel"])
	assert.Equal(t, "2.50", data["taxa_juros"])
	assert.Equal(t, "rascunho", data["status"])
}

func TestStore_ValidationErrors(t *testing.T) {
	app, _ := setupPropostasTest(t)

	body := createBody()
	body["cliente_salario"] = 1000.00
	body["valor_solicitado"] = 500.00
	status, result := doJSON(t, app, "POST", "/api/propostas/create", body)
	assert.Equal(t, 422, status)
	assert.Equal(t, false, result["success"])
	assert.Equal(t, "Os dados fornecidos são inválidos.", result["message"])

	errs := result["errors"].(map[string]interface{})
	assert.Contains(t, errs, "cliente_salario")
	assert.Contains(t, errs, "valor_solicitado")
}

func TestStore_MissingRequiredField(t *testing.T) {
	app, _ := setupPropostasTest(t)

	body := createBody()
	delete(body, "cliente_nome")
	status, result := doJSON(t, app, "POST", "/api/propostas/create", body)
	assert.Equal(t, 422, status)
	errs := result["errors"].(map[string]interface{})
	assert.Contains(t, errs, "cliente_nome")
}

func TestStore_InvalidCpf(t *testing.T) {
	app, _ := setupPropostasTest(t)

	body := createBody()
	body["cliente_cpf"] = "12345678900"
	status, result := doJSON(t, app, "POST", "/api/propostas/create", body)
	assert.Equal(t, 422, status)
	errs := result["errors"].(map[string]interface{})
	assert.Contains(t, errs, "cliente_cpf")
}

func TestStore_MarginExceeded(t *testing.T) {
	app, db := setupPropostasTest(t)

	body := createBody()
	body["cliente_salario"] = 1500.00
	body["valor_solicitado"] = 20000.00
	status, result := doJSON(t, app, "POST", "/api/propostas/create", body)
	assert.Equal(t, 422, status)
	assert.Equal(t, "A parcela excede a margem disponível do cliente.", result["message"])

	var count int64
	require.NoError(t, db.Model(&domain.Proposta{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestIndex_ListsWithMeta(t *testing.T) {
	app, _ := setupPropostasTest(t)
	createProposta(t, app)

	status, result := doJSON(t, app, "GET", "/api/propostas/", nil)
	assert.Equal(t, 200, status)
	assert.Equal(t, true, result["success"])

	data := result["data"].([]interface{})
	assert.Len(t, data, 1)
	meta := result["meta"].(map[string]interface{})
	assert.Equal(t, float64(1), meta["current_page"])
	assert.Equal(t, float64(10), meta["per_page"])
	assert.Equal(t, float64(1), meta["total"])
	assert.Equal(t, float64(1), meta["last_page"])
}

func TestIndex_StatusFilter(t *testing.T) {
	app, _ := setupPropostasTest(t)
	createProposta(t, app)

	status, result := doJSON(t, app, "GET", "/api/propostas/?status=aprovada", nil)
	assert.Equal(t, 200, status)
	data := result["data"].([]interface{})
	assert.Len(t, data, 0)
}

func TestShow_FoundAndNotFound(t *testing.T) {
	app, _ := setupPropostasTest(t)
	created := createProposta(t, app)

	status, result := doJSON(t, app, "GET", "/api/propostas/"+created["id"].(string), nil)
	assert.Equal(t, 200, status)
	data := result["data"].(map[string]interface{})
	assert.Equal(t, created["id"], data["id"])

	status, result = doJSON(t, app, "GET", "/api/propostas/7b7a0b8a-07a8-4f0f-9a36-0f0d3c1a2b4c", nil)
	assert.Equal(t, 404, status)
	assert.Equal(t, false, result["success"])
	assert.Equal(t, "Proposta não encontrada.", result["message"])
}

func TestShow_InvalidIDFormat(t *testing.T) {
	app, _ := setupPropostasTest(t)

	status, _ := doJSON(t, app, "GET", "/api/propostas/not-a-uuid", nil)
	assert.Equal(t, 404, status)
}

func TestUpdate_PartialBody(t *testing.T) {
	app, _ := setupPropostasTest(t)
	created := createProposta(t, app)

	status, result := doJSON(t, app, "PATCH", "/api/propostas/"+created["id"].(string)+"/update", map[string]interface{}{
		"observacoes": "Cliente com bom histórico de crédito.",
	})
	assert.Equal(t, 200, status)
	data := result["data"].(map[string]interface{})
	assert.Equal(t, "Cliente com bom histórico de crédito.", data["observacoes"])
	// Derived fields are untouched by a generic update.
	assert.Equal(t, created["valor_parcela"], data["valor_parcela"])
}

func TestUpdate_NotFound(t *testing.T) {
	app, _ := setupPropostasTest(t)

	status, _ := doJSON(t, app, "PATCH", "/api/propostas/7b7a0b8a-07a8-4f0f-9a36-0f0d3c1a2b4c/update", map[string]interface{}{
		"observacoes": "x",
	})
	assert.Equal(t, 404, status)
}

func TestUpdateStatus_FlowAndBlockedTransition(t *testing.T) {
	app, _ := setupPropostasTest(t)
	created := createProposta(t, app)
	id := created["id"].(string)

	status, result := doJSON(t, app, "PATCH", "/api/propostas/"+id+"/status", map[string]interface{}{"status": "aprovada"})
	assert.Equal(t, 200, status)
	data := result["data"].(map[string]interface{})
	assert.Equal(t, "aprovada", data["status"])

	status, result = doJSON(t, app, "PATCH", "/api/propostas/"+id+"/status", map[string]interface{}{"status": "em_analise"})
	assert.Equal(t, 422, status)
	assert.Equal(t, false, result["success"])
	errs := result["errors"].(map[string]interface{})
	assert.Contains(t, errs, "status")
}

func TestUpdateStatus_InvalidValue(t *testing.T) {
	app, _ := setupPropostasTest(t)
	created := createProposta(t, app)

	status, _ := doJSON(t, app, "PATCH", "/api/propostas/"+created["id"].(string)+"/status", map[string]interface{}{"status": "pendente"})
	assert.Equal(t, 422, status)
}

func TestDestroy_SoftDelete(t *testing.T) {
	app, _ := setupPropostasTest(t)
	created := createProposta(t, app)
	id := created["id"].(string)

	status, result := doJSON(t, app, "DELETE", "/api/propostas/"+id, nil)
	assert.Equal(t, 200, status)
	assert.Equal(t, "Proposta removida com sucesso.", result["message"])

	status, _ = doJSON(t, app, "GET", "/api/propostas/"+id, nil)
	assert.Equal(t, 404, status)

	status, _ = doJSON(t, app, "DELETE", "/api/propostas/"+id, nil)
	assert.Equal(t, 404, status)
}

func TestEvents_ReturnsAuditTrail(t *testing.T) {
	app, _ := setupPropostasTest(t)
	created := createProposta(t, app)
	id := created["id"].(string)

	_, _ = doJSON(t, app, "PATCH", "/api/propostas/"+id+"/status", map[string]interface{}{"status": "em_analise"})

	status, result := doJSON(t, app, "GET", "/api/propostas/"+id+"/events", nil)
	assert.Equal(t, 200, status)
	data := result["data"].([]interface{})
	assert.Len(t, data, 2)
}

func TestIndex_Pagination(t *testing.T) {
	app, db := setupPropostasTest(t)
	for i := 0; i < 12; i++ {
		p := &domain.Proposta{
			ClienteNome:      fmt.Sprintf("Cliente %02d", i),
			ClienteCpf:       fmt.Sprintf("%011d", i),
			ClienteSalario:   decimal.RequireFromString("5000.00"),
			ValorSolicitado:  decimal.RequireFromString("2000.00"),
			PrazoMeses:       12,
			TaxaJuros:        decimal.RequireFromString("2.5"),
			ValorParcela:     decimal.RequireFromString("194.97"),
			ValorTotal:       decimal.RequireFromString("2339.64"),
			MargemDisponivel: decimal.RequireFromString("1500.00"),
			Status:           domain.StatusRascunho,
		}
		require.NoError(t, db.Create(p).Error)
	}

	status, result := doJSON(t, app, "GET", "/api/propostas/?page=2", nil)
	assert.Equal(t, 200, status)
	data := result["data"].([]interface{})
	assert.Len(t, data, 2)
	meta := result["meta"].(map[string]interface{})
	assert.Equal(t, float64(2), meta["current_page"])
	assert.Equal(t, float64(12), meta["total"])
	assert.Equal(t, float64(2), meta["last_page"])
}
