package sqlbuild

// TruncateBuilder assembles a TRUNCATE TABLE statement.
type TruncateBuilder struct {
	dialect Dialect
	table   TableRef
}

// NewTruncate returns a TRUNCATE builder for the dialect.
func NewTruncate(d Dialect) *TruncateBuilder {
	return &TruncateBuilder{dialect: d}
}

// Table sets the target table by name.
func (b *TruncateBuilder) Table(table string) *TruncateBuilder {
	b.table = TableRef{Name: table}
	return b
}

// TableRef sets the target table from a full reference.
func (b *TruncateBuilder) TableRef(ref TableRef) *TruncateBuilder {
	b.table = ref
	return b
}

// Build renders the statement.
func (b *TruncateBuilder) Build() (string, error) {
	if b.table.Name == "" {
		return "", errMissingTable("TRUNCATE")
	}
	return "TRUNCATE TABLE " + b.table.renderBare(b.dialect), nil
}
