package bot

import (
	"context"
	"strings"

	"github.com/pagatodo/finanzas-bot/internal/logger"
	"github.com/pagatodo/finanzas-bot/internal/models"
)

// categoryAliases maps colloquial tokens to canonical category slugs.
// Static aliases take precedence over a user's custom categories.
var categoryAliases = map[string]string{
	"super":          "supermercado",
	"supermercado":   "supermercado",
	"mercado":        "supermercado",
	"comida":         "comida",
	"comer":          "comida",
	"restaurante":    "comida",
	"salida":         "salidas",
	"salidas":        "salidas",
	"bar":            "salidas",
	"joda":           "salidas",
	"transporte":     "transporte",
	"uber":           "transporte",
	"taxi":           "transporte",
	"bondi":          "transporte",
	"nafta":          "combustible",
	"combustible":    "combustible",
	"alquiler":       "alquiler",
	"luz":            "servicios",
	"gas":            "servicios",
	"agua":           "servicios",
	"servicios":      "servicios",
	"internet":       "internet",
	"celular":        "celulares",
	"celulares":      "celulares",
	"telefono":       "celulares",
	"spotify":        "spotify",
	"netflix":        "netflix",
	"disney":         "disney-plus",
	"youtube":        "youtube-premium",
	"ropa":           "compras",
	"compras":        "compras",
	"compra":         "compras",
	"gym":            "actividad-fisica",
	"gimnasio":       "actividad-fisica",
	"padel":          "actividad-fisica",
	"deporte":        "actividad-fisica",
	"actividad":      "actividad-fisica",
	"tarjeta":        "tarjeta-credito",
	"credito":        "tarjeta-credito",
	"transferencia":  "transferencias",
	"transferencias": "transferencias",
	"circulo":        "circulo",
	"salud":          "salud",
	"medico":         "salud",
	"farmacia":       "salud",
	"educacion":      "educacion",
	"curso":          "educacion",
	"libro":          "educacion",
	"regalo":         "regalos",
	"regalos":        "regalos",
	"prestamo":       "prestamos",
	"prestamos":      "prestamos",
	"dibujo":         "dibujo",
	"hobbies":        "hobbies",
	"hobby":          "hobbies",
	"otros":          "otros-gastos",
	"sueldo":         "salario",
	"salario":        "salario",
	"freelance":      "freelance",
	"extra":          "otros-ingresos",
	"ahorro":         "ahorros",
	"ahorros":        "ahorros",
	"inversion":      "inversiones",
	"inversiones":    "inversiones",
}

// CustomCategorySource reads an account's user-defined categories.
type CustomCategorySource interface {
	GetByOwner(ctx context.Context, ownerID string) ([]models.CustomCategory, error)
}

// ResolvedCategory is the outcome of category resolution.
type ResolvedCategory struct {
	Category string
	Type     models.TransactionType
}

// CategoryResolver maps free-text tokens to canonical categories.
type CategoryResolver struct {
	custom CustomCategorySource
}

// NewCategoryResolver creates a resolver backed by the given custom
// category source.
func NewCategoryResolver(custom CustomCategorySource) *CategoryResolver {
	return &CategoryResolver{custom: custom}
}

// Resolve maps a token to a category and its implied transaction type.
// Resolution never fails: alias table first, then the owner's custom
// categories, then the normalized token itself as an expense.
func (r *CategoryResolver) Resolve(ctx context.Context, input, ownerID string) ResolvedCategory {
	normalized := strings.ToLower(strings.TrimSpace(input))

	if slug, ok := categoryAliases[normalized]; ok {
		return ResolvedCategory{Category: slug, Type: models.CategoryTypeFor(slug)}
	}

	if r.custom != nil {
		categories, err := r.custom.GetByOwner(ctx, ownerID)
		if err != nil {
			logger.Log.Warn().
				Err(err).
				Str("owner_hash", logger.HashOwnerID(ownerID)).
				Msg("Custom category lookup failed, falling back to raw token")
		} else {
			for _, cat := range categories {
				if strings.EqualFold(cat.Label, normalized) || strings.EqualFold(cat.Value, normalized) {
					return ResolvedCategory{Category: cat.Value, Type: cat.Type}
				}
			}
		}
	}

	return ResolvedCategory{Category: normalized, Type: models.TypeExpense}
}
