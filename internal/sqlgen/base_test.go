package sqlgen_test

import (
	"testing"

	"db-classify/internal/dialect"
	"db-classify/internal/migration"
	"db-classify/internal/schema"
	"db-classify/internal/sqlgen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, op migration.Operation) []string {
	t.Helper()
	var b sqlgen.Builder
	handled, err := sqlgen.NewBaseWriter(&dialect.MSSQLDialect{}).Write(&b, op)
	require.NoError(t, err)
	require.True(t, handled)
	return sqlOf(b.Commands())
}

func TestBaseWriter_Columns(t *testing.T) {
	phone := &schema.Column{Name: "Phone", DataType: "nvarchar", Length: 30, IsNullable: true}
	notes := &schema.Column{Name: "Notes", DataType: "nvarchar", Length: -1, IsNullable: true}
	id := &schema.Column{Name: "Id", DataType: "bigint", IsAutoInc: true}

	assert.Equal(t, []string{"ALTER TABLE [dbo].[Users] ADD [Phone] nvarchar(30) NULL;"},
		write(t, &migration.AddColumn{Table: "Users", Column: phone}))
	assert.Equal(t, []string{"ALTER TABLE [sales].[Users] ADD [Notes] nvarchar(max) NULL;"},
		write(t, &migration.AddColumn{Schema: "sales", Table: "Users", Column: notes}))
	assert.Equal(t, []string{"ALTER TABLE [dbo].[Users] ADD [Id] bigint NOT NULL IDENTITY(1,1);"},
		write(t, &migration.AddColumn{Table: "Users", Column: id}))
	assert.Equal(t, []string{"ALTER TABLE [dbo].[Users] DROP COLUMN [Phone];"},
		write(t, &migration.DropColumn{Table: "Users", Name: "Phone"}))
}

func TestBaseWriter_AlterColumn(t *testing.T) {
	old := &schema.Column{Name: "Age", DataType: "int", IsNullable: true}
	wider := &schema.Column{Name: "Age", DataType: "bigint", IsNullable: true}
	assert.Equal(t, []string{"ALTER TABLE [dbo].[People] ALTER COLUMN [Age] bigint NULL;"},
		write(t, &migration.AlterColumn{Table: "People", Column: wider, Old: old}))

	relabelled := &schema.Column{Name: "Age", DataType: "int", IsNullable: true}
	relabelled.Classify("Confidential", "", "")
	assert.Empty(t, write(t, &migration.AlterColumn{Table: "People", Column: relabelled, Old: old}))
}

func TestBaseWriter_Renames(t *testing.T) {
	assert.Equal(t, []string{"EXEC sp_rename N'[dbo].[Users].[Mail]', N'Email', N'COLUMN';"},
		write(t, &migration.RenameColumn{Table: "Users", Name: "Mail", NewName: "Email"}))

	assert.Equal(t, []string{
		"EXEC sp_rename N'[dbo].[Users]', N'Members';",
		"ALTER SCHEMA [crm] TRANSFER [dbo].[Members];",
	}, write(t, &migration.RenameTable{Name: "Users", NewSchema: "crm", NewName: "Members"}))

	assert.Equal(t, []string{"ALTER SCHEMA [crm] TRANSFER [dbo].[Users];"},
		write(t, &migration.RenameTable{Schema: "dbo", Name: "Users", NewSchema: "crm", NewName: "Users"}))

	assert.Equal(t, []string{"EXEC sp_rename N'[dbo].[Users]', N'Members';"},
		write(t, &migration.RenameTable{Name: "Users", NewName: "Members"}))
}

func TestBaseWriter_IgnoresClassificationOps(t *testing.T) {
	var b sqlgen.Builder
	handled, err := sqlgen.NewBaseWriter(&dialect.MSSQLDialect{}).
		Write(&b, migration.DropClassification("", "Users", "Email"))
	require.NoError(t, err)
	assert.False(t, handled)
	assert.Zero(t, b.Len())
}

func TestBuilder_DropsEmptyCommands(t *testing.T) {
	var b sqlgen.Builder
	b.EndCommand()
	b.AppendLine("   ").EndCommand()
	b.AppendLine("SELECT 1;").EndCommand()

	require.Equal(t, 1, b.Len())
	assert.Equal(t, "SELECT 1;", b.Commands()[0].SQL)
}
