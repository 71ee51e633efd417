package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Category represents a product category.
// The json tags correspond to the fields expected in API responses/requests.
type Category struct {
	ID          int64     `json:"id"`
	Nombre      string    `json:"nombre"`
	Descripcion string    `json:"descripcion"`
	Icono       string    `json:"icono"`
	Productos   []Product `json:"productos_en_categoria"`
}

// Product represents a product in the catalog. Imagen is a pointer because
// the column is nullable even though creation requires a value.
type Product struct {
	ID          int64   `json:"id"`
	Titulo      string  `json:"titulo"`
	Descripcion string  `json:"descripcion"`
	Precio      int64   `json:"precio"`
	Imagen      *string `json:"imagen"`
	CategoriaID int64   `json:"categoria_id"`
}

// Capitalize lowercases the whole string and uppercases the first rune.
// Category names and product titles are stored in this form.
func Capitalize(s string) string {
	s = strings.ToLower(s)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// NewCategory builds a category for registration, normalizing the name.
// Normalization happens at creation only; patches apply values verbatim.
func NewCategory(nombre, descripcion, icono string) *Category {
	return &Category{
		Nombre:      Capitalize(nombre),
		Descripcion: descripcion,
		Icono:       icono,
		Productos:   []Product{},
	}
}

// NewProduct builds a product for registration, normalizing the title.
func NewProduct(titulo, descripcion string, precio int64, imagen string, categoriaID int64) *Product {
	return &Product{
		Titulo:      Capitalize(titulo),
		Descripcion: descripcion,
		Precio:      precio,
		Imagen:      &imagen,
		CategoriaID: categoriaID,
	}
}

// CategoryPatch is a partial update: nil fields are left untouched.
type CategoryPatch struct {
	Nombre      *string `json:"nombre"`
	Descripcion *string `json:"descripcion"`
	Icono       *string `json:"icono"`
}

// Apply copies the present fields of the patch onto the category.
func (p CategoryPatch) Apply(c *Category) {
	if p.Nombre != nil {
		c.Nombre = *p.Nombre
	}
	if p.Descripcion != nil {
		c.Descripcion = *p.Descripcion
	}
	if p.Icono != nil {
		c.Icono = *p.Icono
	}
}

// ProductPatch is a partial update: nil fields are left untouched.
type ProductPatch struct {
	Titulo      *string `json:"titulo"`
	Descripcion *string `json:"descripcion"`
	Precio      *int64  `json:"precio"`
	Imagen      *string `json:"imagen"`
	CategoriaID *int64  `json:"categoria_id"`
}

// Apply copies the present fields of the patch onto the product.
func (p ProductPatch) Apply(prod *Product) {
	if p.Titulo != nil {
		prod.Titulo = *p.Titulo
	}
	if p.Descripcion != nil {
		prod.Descripcion = *p.Descripcion
	}
	if p.Precio != nil {
		prod.Precio = *p.Precio
	}
	if p.Imagen != nil {
		prod.Imagen = p.Imagen
	}
	if p.CategoriaID != nil {
		prod.CategoriaID = *p.CategoriaID
	}
}
