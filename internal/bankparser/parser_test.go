package bankparser

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contaflow/dian-csv/internal/classifier"
)

const bancolombiaPage = `BANCOLOMBIA S.A. ESTADO DE CUENTA
CUENTA DE AHORROS
EMPRESA DEMO S.A.S
NUMERO 12345678901
DESDE: 2025/01/01 HASTA: 2025/01/31
SALDO ANTERIOR $ 1.000.000,00
TOTAL ABONOS $ 500.000,00
TOTAL CARGOS $ 300.000,00
SALDO ACTUAL $ 1.200.000,00
FECHA DESCRIPCION VALOR SALDO
2/01 PAGO QR COMERCIO 200.000,00 1.200.000,00
15/01 RETIRO CAJERO ATM 100.000,00 1.100.000,00
31/12 CUOTA MANEJO 25.000,00 1.075.000,00`

func TestParsePagesBancolombia(t *testing.T) {
	stmt := ParsePages([]string{bancolombiaPage})

	assert.Equal(t, "Bancolombia", stmt.Bank)
	assert.Equal(t, "EMPRESA DEMO S.A.S", stmt.Holder)
	assert.Equal(t, "12345678901", stmt.Account)
	assert.Equal(t, "2025-01-01 al 2025-01-31", stmt.Period)

	assert.True(t, decimal.NewFromInt(1000000).Equal(stmt.Meta.PreviousBalance))
	assert.True(t, decimal.NewFromInt(500000).Equal(stmt.Meta.TotalCredits))
	assert.True(t, decimal.NewFromInt(300000).Equal(stmt.Meta.TotalDebits))
	assert.True(t, decimal.NewFromInt(1200000).Equal(stmt.Meta.CurrentBalance))

	require.Len(t, stmt.Movements, 3)

	first := stmt.Movements[0]
	assert.Equal(t, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, "PAGO QR COMERCIO", first.Description)
	assert.True(t, first.IsCredit(), "balance rose, movement must be a credit")
	assert.True(t, decimal.NewFromInt(200000).Equal(first.Credit))
	assert.Equal(t, classifier.CategoryIngreso, first.Category)

	second := stmt.Movements[1]
	assert.False(t, second.IsCredit(), "balance dropped, movement must be a debit")
	assert.True(t, decimal.NewFromInt(100000).Equal(second.Debit))
	assert.Equal(t, classifier.CategoryRetiro, second.Category)

	// December transactions on a January statement belong to the prior year.
	third := stmt.Movements[2]
	assert.Equal(t, 2024, third.Date.Year())
	assert.Equal(t, time.December, third.Date.Month())
	assert.Equal(t, classifier.CategoryComision, third.Category)
}

func TestParsePagesBancolombiaFirstRowKeywordInference(t *testing.T) {
	page := `BANCOLOMBIA SUCURSAL VIRTUAL PERSONAS
DESDE: 2025/02/01 HASTA: 2025/02/28
FECHA DESCRIPCION VALOR SALDO
3/02 ABONO INTERESES AHORROS 5.000,00 905.000,00
10/02 COMPRA TARJETA SUPERMERCADO 50.000,00 855.000,00`

	stmt := ParsePages([]string{page})
	require.Len(t, stmt.Movements, 2)

	// No SALDO ANTERIOR in the header: the first row direction comes from
	// its description, the second from the balance delta.
	assert.True(t, stmt.Movements[0].IsCredit())
	assert.False(t, stmt.Movements[1].IsCredit())
}

func TestParsePagesBancolombiaFiltersArtifacts(t *testing.T) {
	page := `BANCOLOMBIA ESTADO DE CUENTA
DESDE: 2025/01/01 HASTA: 2025/01/31
SALDO ANTERIOR $ 100.000,00
5/01 FECHA DESCRIPCION SUCURSAL 1,00 2,00
7/01 AJUSTE MENOR 0,00 100.000,00
9/01 CONSIGNACION CLIENTE 50.000,00 150.000,00`

	stmt := ParsePages([]string{page})
	require.Len(t, stmt.Movements, 1)
	assert.Equal(t, "CONSIGNACION CLIENTE", stmt.Movements[0].Description)
}

func TestParsePagesGenericTable(t *testing.T) {
	page := `BANCO DAVIVIENDA EXTRACTO
Cliente: EMPRESA EJEMPLO SAS
FECHA  DESCRIPCION  DEBITO  CREDITO  SALDO
01/02/2025  PAGO NOMINA EMPLEADOS  2.000.000  0  8.000.000
05/02/2025  CONSIGNACION CLIENTE  0  1.500.000  9.500.000
10/02/2025  COMISION BANCARIA  25.000  0  9.475.000`

	stmt := ParsePages([]string{page})
	assert.Equal(t, "Davivienda", stmt.Bank)
	require.Len(t, stmt.Movements, 3)

	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), stmt.Movements[0].Date)
	assert.True(t, decimal.NewFromInt(2000000).Equal(stmt.Movements[0].Debit))
	assert.Equal(t, classifier.CategoryNomina, stmt.Movements[0].Category)
	assert.True(t, decimal.NewFromInt(1500000).Equal(stmt.Movements[1].Credit))
	assert.Equal(t, classifier.CategoryComision, stmt.Movements[2].Category)
}

func TestParsePagesGenericTextFallback(t *testing.T) {
	// No table header and too few table-shaped rows: the line regex runs.
	page := `BANCO BBVA COLOMBIA
07/03/2025 TRANSFERENCIA PSE PROVEEDOR 300.000,00
12/03/2025 PAGO IMPUESTO PREDIAL 150.000,00`

	stmt := ParsePages([]string{page})
	assert.Equal(t, "BBVA", stmt.Bank)
	require.Len(t, stmt.Movements, 2)
	assert.Equal(t, "TRANSFERENCIA PSE PROVEEDOR", stmt.Movements[0].Description)
	assert.True(t, decimal.NewFromInt(300000).Equal(stmt.Movements[0].Debit))
	assert.Equal(t, classifier.CategoryTransferencia, stmt.Movements[0].Category)
}

func TestParsePagesEmpty(t *testing.T) {
	stmt := ParsePages(nil)
	assert.Equal(t, classifier.GenericBank, stmt.Bank)
	assert.Empty(t, stmt.Movements)

	stmt = ParsePages([]string{"EXTRACTO SIN MOVIMIENTOS RECONOCIBLES"})
	assert.Empty(t, stmt.Movements)
}
