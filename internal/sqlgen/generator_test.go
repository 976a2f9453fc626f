package sqlgen_test

import (
	"errors"
	"strings"
	"testing"

	"db-classify/internal/classification"
	"db-classify/internal/dialect"
	"db-classify/internal/migration"
	"db-classify/internal/schema"
	"db-classify/internal/sqlgen"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGenerator() *sqlgen.Generator {
	return sqlgen.NewGenerator(&dialect.MSSQLDialect{})
}

func sqlOf(commands []sqlgen.Command) []string {
	out := make([]string, len(commands))
	for i, c := range commands {
		out[i] = c.SQL
	}
	return out
}

func generate(t *testing.T, ops []migration.Operation, model *schema.Snapshot) []string {
	t.Helper()
	commands, err := newGenerator().Generate(ops, model)
	require.NoError(t, err)
	return sqlOf(commands)
}

const emailLevels = `@level0type=N'SCHEMA', @level0name=N'dbo', @level1type=N'TABLE', @level1name=N'Users', @level2type=N'COLUMN', @level2name=N'Email'`

func TestGenerate_CreateClassification(t *testing.T) {
	op := migration.AddClassification("", "Users", "Email", "Confidential", "Contact Info", "high")

	assert.Equal(t, []string{
		`EXEC sys.sp_addextendedproperty @name=N'Classification:Label', @value=N'Confidential', ` + emailLevels + `;`,
		`EXEC sys.sp_addextendedproperty @name=N'Classification:InformationType', @value=N'Contact Info', ` + emailLevels + `;`,
		`EXEC sys.sp_addextendedproperty @name=N'Classification:Rank', @value=N'High', ` + emailLevels + `;`,
		`ADD SENSITIVITY CLASSIFICATION TO [dbo].[Users].[Email] WITH (LABEL = N'Confidential', INFORMATION_TYPE = N'Contact Info', RANK = HIGH);`,
	}, generate(t, []migration.Operation{op}, nil))
}

func TestGenerate_BlankFieldsAreSkipped(t *testing.T) {
	op := migration.AddClassification("", "Users", "Email", "", "Contact Info", "")

	got := generate(t, []migration.Operation{op}, nil)
	require.Len(t, got, 2)
	assert.Contains(t, got[0], "@name=N'Classification:InformationType'")
	assert.Equal(t, `ADD SENSITIVITY CLASSIFICATION TO [dbo].[Users].[Email] WITH (INFORMATION_TYPE = N'Contact Info');`, got[1])
}

func TestGenerate_RankNone(t *testing.T) {
	op := migration.AddClassification("", "Users", "Email", "Public", "Contact Info", "None")

	got := generate(t, []migration.Operation{op}, nil)
	require.Len(t, got, 4)
	assert.Contains(t, got[2], "@value=N'None'")

	add := got[3]
	assert.Contains(t, add, "LABEL = N'Public'")
	assert.Contains(t, add, "INFORMATION_TYPE = N'Contact Info'")
	assert.NotContains(t, add, "RANK =")
}

func TestGenerate_RankNoneAlone(t *testing.T) {
	op := migration.AddClassification("", "Users", "Email", "", "", "none")

	got := generate(t, []migration.Operation{op}, nil)
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "@name=N'Classification:Rank', @value=N'None'")
	for _, s := range got {
		assert.NotContains(t, s, "ADD SENSITIVITY")
	}
}

func TestGenerate_EmptyTripleEmitsNothing(t *testing.T) {
	op := migration.AddClassification("", "Users", "Email", "", "", "")
	assert.Empty(t, generate(t, []migration.Operation{op}, nil))
}

func TestGenerate_RemoveIsGuarded(t *testing.T) {
	got := generate(t, []migration.Operation{migration.DropClassification("", "Users", "Email")}, nil)
	require.Len(t, got, 4)

	for i, name := range []string{"Label", "InformationType", "Rank"} {
		assert.True(t, strings.HasPrefix(got[i], "IF EXISTS (SELECT 1 FROM sys.extended_properties ep"), got[i])
		assert.Contains(t, got[i], "ep.name = N'Classification:"+name+"'")
		assert.Contains(t, got[i], "OBJECT_ID(N'[dbo].[Users]')")
		assert.Contains(t, got[i], "COLUMNPROPERTY(OBJECT_ID(N'[dbo].[Users]'), N'Email', 'ColumnId')")
		assert.Contains(t, got[i], "\n    EXEC sys.sp_dropextendedproperty @name=N'Classification:"+name+"', "+emailLevels+";")
	}
	assert.Equal(t,
		"IF EXISTS (SELECT 1 FROM sys.sensitivity_classifications sc WHERE sc.major_id = OBJECT_ID(N'[dbo].[Users]') "+
			"AND sc.minor_id = COLUMNPROPERTY(OBJECT_ID(N'[dbo].[Users]'), N'Email', 'ColumnId'))\n"+
			"    DROP SENSITIVITY CLASSIFICATION FROM [dbo].[Users].[Email];",
		got[3])
}

func TestGenerate_Escaping(t *testing.T) {
	op := migration.AddClassification("hr", "Order]s", "O'Brien", "Bob's label", "機密 データ", "Low")

	got := generate(t, []migration.Operation{op}, nil)
	require.Len(t, got, 4)
	assert.Contains(t, got[0], "@value=N'Bob''s label'")
	assert.Contains(t, got[0], "@level1name=N'Order]s'")
	assert.Contains(t, got[0], "@level2name=N'O''Brien'")
	assert.Contains(t, got[1], "@value=N'機密 データ'")
	assert.Equal(t,
		`ADD SENSITIVITY CLASSIFICATION TO [hr].[Order]]s].[O'Brien] WITH (LABEL = N'Bob''s label', INFORMATION_TYPE = N'機密 データ', RANK = LOW);`,
		got[3])

	rm := generate(t, []migration.Operation{migration.DropClassification("hr", "Order]s", "O'Brien")}, nil)
	assert.Contains(t, rm[3], "OBJECT_ID(N'[hr].[Order]]s]')")
	assert.Contains(t, rm[3], "DROP SENSITIVITY CLASSIFICATION FROM [hr].[Order]]s].[O'Brien];")
}

func TestGenerate_RandomLabelsAreQuoted(t *testing.T) {
	gofakeit.Seed(7)
	for i := 0; i < 25; i++ {
		label := gofakeit.Company() + "'s " + gofakeit.Emoji()
		op := migration.AddClassification("", "T", "C", label, "", "")

		got := generate(t, []migration.Operation{op}, nil)
		require.Len(t, got, 2)
		assert.Contains(t, got[1], "LABEL = N'"+strings.ReplaceAll(label, "'", "''")+"'")
	}
}

func TestEmit_InvalidRankLeavesBuilderUntouched(t *testing.T) {
	g := newGenerator()
	var b sqlgen.Builder
	require.NoError(t, g.Emit(&b, migration.DropClassification("", "Users", "Phone"), nil))
	before := b.Len()

	op := migration.AddClassification("", "Users", "Email", "Confidential", "Contact Info", "Severe")
	op.DisplayName = "Users.Email"
	err := g.Emit(&b, op, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, classification.ErrInvalidRank))
	var invalid *classification.InvalidClassificationError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "Severe", invalid.Value)
	assert.Equal(t, before, b.Len())
}

func TestGenerate_LabelTooLong(t *testing.T) {
	label := strings.Repeat("x", classification.MaxLabelLength+1)
	op := migration.AddClassification("", "Users", "Email", label, "", "")

	commands, err := newGenerator().Generate([]migration.Operation{op}, nil)
	assert.ErrorIs(t, err, classification.ErrLabelTooLong)
	assert.Nil(t, commands)
}

func adminsModel(rank string) *schema.Snapshot {
	model := &schema.Snapshot{}
	admins := model.AddTable("", "Admins")
	admins.AddColumn("Id", "int").IsPK = true
	email := admins.AddColumn("Email", "nvarchar")
	email.Length = 200
	email.Classify("Confidential", "Contact Info", rank)
	return model
}

func TestGenerate_ModelCreateTable(t *testing.T) {
	model := adminsModel("Medium")
	create := &migration.CreateTable{Name: "Admins", Columns: model.Tables[0].Columns}

	got := generate(t, []migration.Operation{create}, model)
	require.Len(t, got, 5)
	assert.Equal(t, "CREATE TABLE [dbo].[Admins] (\n"+
		"    [Id] int NOT NULL,\n"+
		"    [Email] nvarchar(200) NULL,\n"+
		"    CONSTRAINT [PK_Admins] PRIMARY KEY ([Id])\n"+
		");", got[0])
	assert.Contains(t, got[1], "sp_addextendedproperty")
	assert.Contains(t, got[4], "ADD SENSITIVITY CLASSIFICATION TO [dbo].[Admins].[Email]")
}

func TestGenerate_ModelValidationFailsBeforeStructuralStatement(t *testing.T) {
	model := adminsModel("Extreme")
	g := newGenerator()
	var b sqlgen.Builder

	err := g.Emit(&b, &migration.CreateTable{Name: "Admins", Columns: model.Tables[0].Columns}, model)
	assert.ErrorIs(t, err, classification.ErrInvalidRank)
	assert.Zero(t, b.Len())

	err = g.Emit(&b, &migration.AddColumn{Table: "Admins", Column: model.Tables[0].FindColumn("Email")}, model)
	assert.ErrorIs(t, err, classification.ErrInvalidRank)
	assert.Zero(t, b.Len())
}

func TestGenerate_ModelDropColumnRemovesFirst(t *testing.T) {
	model := adminsModel("High")
	got := generate(t, []migration.Operation{&migration.DropColumn{Table: "Admins", Name: "Email"}}, model)

	require.Len(t, got, 5)
	for _, s := range got[:4] {
		assert.True(t, strings.HasPrefix(s, "IF EXISTS"), s)
	}
	assert.Equal(t, "ALTER TABLE [dbo].[Admins] DROP COLUMN [Email];", got[4])
}

func TestGenerate_ModelDropTableRemovesClassifiedColumns(t *testing.T) {
	model := adminsModel("High")
	got := generate(t, []migration.Operation{&migration.DropTable{Name: "Admins"}}, model)

	require.Len(t, got, 5)
	assert.Contains(t, got[3], "DROP SENSITIVITY CLASSIFICATION FROM [dbo].[Admins].[Email];")
	assert.Equal(t, "DROP TABLE [dbo].[Admins];", got[4])
}

func TestGenerate_DecoratedAndModelPathsAgree(t *testing.T) {
	model := adminsModel("High")
	table := model.Tables[0]

	cases := map[string]struct {
		op             migration.Operation
		source, target *schema.Snapshot
	}{
		"create table": {&migration.CreateTable{Name: "Admins", Columns: table.Columns}, nil, model},
		"add column":   {&migration.AddColumn{Table: "Admins", Column: table.FindColumn("Email")}, nil, model},
		"drop column":  {&migration.DropColumn{Table: "Admins", Name: "Email"}, model, nil},
		"drop table":   {&migration.DropTable{Name: "Admins"}, model, nil},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			decorated := migration.Decorate(tc.source, tc.target, []migration.Operation{tc.op})
			viaDecorator := generate(t, decorated, nil)
			viaModel := generate(t, []migration.Operation{tc.op}, model)
			assert.Equal(t, viaDecorator, viaModel)
		})
	}
}

type recordingWriter struct {
	seen []migration.Operation
}

func (w *recordingWriter) Write(b *sqlgen.Builder, op migration.Operation) (bool, error) {
	w.seen = append(w.seen, op)
	b.Append("-- " + op.Describe()).EndCommand()
	return true, nil
}

func TestGenerate_CustomStructuralWriter(t *testing.T) {
	w := &recordingWriter{}
	g := newGenerator().WithStructuralWriter(w)

	ops := []migration.Operation{
		&migration.RenameTable{Name: "Users", NewName: "Members"},
		migration.DropClassification("", "Members", "Email"),
	}
	commands, err := g.Generate(ops, nil)
	require.NoError(t, err)
	require.Len(t, w.seen, 1)
	assert.Equal(t, "-- RenameTable dbo.Users -> dbo.Members", commands[0].SQL)
	assert.Len(t, commands, 5)
}

type unknownOp struct{}

func (unknownOp) Describe() string { return "unknown" }

func TestGenerate_UnhandledOperation(t *testing.T) {
	_, err := newGenerator().Generate([]migration.Operation{unknownOp{}}, nil)
	assert.ErrorContains(t, err, "no SQL generator")
}

func TestScript(t *testing.T) {
	commands := []sqlgen.Command{{SQL: "SELECT 1;"}, {SQL: "SELECT 2;"}}
	assert.Equal(t, "SELECT 1;\nGO\n\nSELECT 2;\nGO\n\n", sqlgen.Script(commands, "GO"))
	assert.Equal(t, "SELECT 1;\n\nSELECT 2;\n\n", sqlgen.Script(commands, ""))
}
