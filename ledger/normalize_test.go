package ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// PRIMARY FEED
// =============================================================================

func primaryFeed(rows ...Row) *Feed {
	return &Feed{
		Headers: []string{
			"PEDIDO", "DIRECCION", "MUNICIPIO", "NOMBRE_CLIENTE", "SUBZONA",
			"COORDENADAX", "COORDENADAY", "FECHA_INICIO_ANS", "DETALLE_VISITA",
			"TIPO_MEDIDOR", "URBANO_RURAL", "ACTIVIDAD",
		},
		Rows: rows,
	}
}

func TestNormalizePrimary_AliasesAndCleansFields(t *testing.T) {
	recs, err := NormalizePrimary(primaryFeed(Row{
		"PEDIDO":           "  a100 ",
		"DIRECCION":        "'CL 10 # 20-30",
		"MUNICIPIO":        " Medellin ",
		"NOMBRE_CLIENTE":   "cliente uno",
		"SUBZONA":          "metropolitana sur",
		"COORDENADAX":      "-75.5",
		"COORDENADAY":      "6.2",
		"FECHA_INICIO_ANS": "2025-09-01",
		"DETALLE_VISITA":   "directa",
		"URBANO_RURAL":     "urbano",
	}))
	require.NoError(t, err)
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.Equal(t, "A100", rec.OrderID, "order id trimmed and upper-cased")
	assert.Equal(t, "CL 10 # 20-30", rec.Address, "protective apostrophe stripped")
	assert.Equal(t, "Medellin", rec.Municipality)
	assert.Equal(t, "CLIENTE UNO", rec.Client)
	assert.Equal(t, "METROPOLITANA", rec.Subzone, "spelling variant collapsed")
	assert.Equal(t, "DIRECTA", rec.VisitDetail)
	assert.Equal(t, "URBANO", rec.UrbanRural)
	assert.Equal(t, "2025-09-01", rec.StatusChangeDate)
}

func TestNormalizePrimary_DropsBlankAndDuplicateOrderIDs(t *testing.T) {
	recs, err := NormalizePrimary(primaryFeed(
		Row{"PEDIDO": "A100", "DETALLE_VISITA": "DIRECTA"},
		Row{"PEDIDO": "   "},
		Row{"PEDIDO": "a100", "DETALLE_VISITA": "INDIRECTA"}, // same key, first wins
		Row{"PEDIDO": "A200"},
	))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "A100", recs[0].OrderID)
	assert.Equal(t, "DIRECTA", recs[0].VisitDetail)
	assert.Equal(t, "A200", recs[1].OrderID)
}

func TestNormalizePrimary_MissingRequiredColumn(t *testing.T) {
	feed := &Feed{Headers: []string{"PEDIDO", "DIRECCION"}}

	_, err := NormalizePrimary(feed)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchema))
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "primary feed", schemaErr.Source)
	assert.Contains(t, schemaErr.Missing, ColMunicipality)
}

func TestNormalizePrimary_VisitTypeRules(t *testing.T) {
	tests := []struct {
		name     string
		detail   string
		feedType string
		activity string
		want     string
	}{
		{"first visit label forces C07", "1RA VISITA", "C09", "ACVIS", "C07"},
		{"feed value kept when present", "DIRECTA", "C08", "ACVIS", "C08"},
		{"visit activity maps to C09", "DIRECTA", "", "ACVIS", "C09"},
		{"other activity maps to C07", "DIRECTA", "", "ACREV", "C07"},
		{"blank activity leaves type blank", "DIRECTA", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := NormalizePrimary(primaryFeed(Row{
				"PEDIDO":         "A100",
				"DETALLE_VISITA": tt.detail,
				"TIPO_VISITA":    tt.feedType,
				"ACTIVIDAD":      tt.activity,
			}))
			require.NoError(t, err)
			require.Len(t, recs, 1)
			assert.Equal(t, tt.want, recs[0].VisitType)
		})
	}
}

// =============================================================================
// SECONDARY FEED
// =============================================================================

func secondaryFeed(rows ...Row) *Feed {
	return &Feed{
		Headers: []string{
			"PEDIDO", "PROMOTOR", "CELULAR", "POTENCIA_AC_[KW]", "SUBZONA_ID",
			"DETALLE_VISITA", "OBSERVACION", "FECHA_CAMBIO_ESTADO",
		},
		Rows: rows,
	}
}

func TestNormalizeSecondary_AliasesAndSubzoneCode(t *testing.T) {
	recs, err := NormalizeSecondary(secondaryFeed(Row{
		"PEDIDO":              "B200",
		"PROMOTOR":            " Acme SAS ",
		"CELULAR":             "3001234567",
		"POTENCIA_AC_[KW]":    "5,50",
		"SUBZONA_ID":          "ori",
		"DETALLE_VISITA":      "documentos",
		"OBSERVACION":         "pendiente",
		"FECHA_CAMBIO_ESTADO": "2025-09-01",
	}))
	require.NoError(t, err)
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.Equal(t, "B200", rec.OrderID)
	assert.Equal(t, "Acme SAS", rec.Promoter)
	assert.Equal(t, "5.5", rec.RatedPowerKW, "comma separator normalized, trailing zero dropped")
	assert.Equal(t, "ORIENTE", rec.Subzone, "coded sub-zone resolved")
	assert.Equal(t, "PENDIENTE", rec.Observation)
	assert.Empty(t, rec.AttentionDate, "scheduling fields always start blank")
	assert.Empty(t, rec.VisitTime)
}

func TestNormalizeSecondary_UnknownSubzoneCodeDegradesToBlank(t *testing.T) {
	recs, err := NormalizeSecondary(secondaryFeed(Row{
		"PEDIDO":     "B200",
		"SUBZONA_ID": "XYZ",
	}))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Empty(t, recs[0].Subzone)
}

func TestNormalizeSecondary_OnlyOrderIDRequired(t *testing.T) {
	feed := &Feed{Headers: []string{"PEDIDO"}, Rows: []Row{{"PEDIDO": "B200"}}}

	recs, err := NormalizeSecondary(feed)

	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestNormalizeSecondary_MissingOrderIDColumn(t *testing.T) {
	feed := &Feed{Headers: []string{"PROMOTOR", "CELULAR"}}

	_, err := NormalizeSecondary(feed)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "secondary feed", schemaErr.Source)
	assert.Equal(t, []string{ColOrderID}, schemaErr.Missing)
}

// =============================================================================
// POWER NORMALIZATION
// =============================================================================

func TestNormalizePower(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"5,5", "5.5"},
		{"5.50", "5.5"},
		{" 12 ", "12"},
		{"", ""},
		{"  ", ""},
		{"n/a", "n/a"}, // unparseable passes through trimmed
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePower(tt.in), "input %q", tt.in)
	}
}
