package migration_test

import (
	"testing"

	"db-classify/internal/migration"
	"db-classify/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, doc string) *schema.Snapshot {
	t.Helper()
	snap, err := schema.ParseSnapshot([]byte(doc))
	require.NoError(t, err)
	return snap
}

func describe(ops []migration.Operation) []string {
	out := make([]string, len(ops))
	for i, op := range ops {
		out[i] = op.Describe()
	}
	return out
}

func TestDiff_FromEmptyCreatesInDependencyOrder(t *testing.T) {
	target := mustParse(t, `
tables:
  - name: OrderItems
    columns:
      - {name: Id, type: int, primary_key: true}
      - {name: OrderId, type: int}
    foreign_keys:
      - {column: OrderId, ref_table: Orders, ref_column: Id}
  - name: Orders
    columns:
      - {name: Id, type: int, primary_key: true}
      - {name: UserId, type: int}
    foreign_keys:
      - {column: UserId, ref_table: Users, ref_column: Id}
  - name: Users
    columns:
      - {name: Id, type: int, primary_key: true}
`)
	ops := migration.Diff(nil, target)
	assert.Equal(t, []string{
		"CreateTable dbo.Users (1 columns)",
		"CreateTable dbo.Orders (2 columns)",
		"CreateTable dbo.OrderItems (2 columns)",
	}, describe(ops))

	drops := migration.Diff(target, nil)
	assert.Equal(t, []string{
		"DropTable dbo.OrderItems",
		"DropTable dbo.Orders",
		"DropTable dbo.Users",
	}, describe(drops))
}

func TestDiff_Columns(t *testing.T) {
	source := mustParse(t, `
tables:
  - name: Users
    columns:
      - {name: Id, type: int, primary_key: true}
      - {name: Mail, type: nvarchar, length: 100}
      - {name: Fax, type: nvarchar, length: 20}
      - {name: Age, type: int}
`)
	target := mustParse(t, `
tables:
  - name: users
    columns:
      - {name: Id, type: int, primary_key: true}
      - {name: Email, type: nvarchar, length: 100, renamed_from: Mail}
      - {name: Age, type: bigint}
      - {name: Phone, type: nvarchar, length: 30}
`)
	ops := migration.Diff(source, target)
	assert.Equal(t, []string{
		"RenameColumn dbo.users.Mail -> Email",
		"DropColumn dbo.users.Fax",
		"AlterColumn dbo.users.Age",
		"AddColumn dbo.users.Phone",
	}, describe(ops))
}

func TestDiff_ClassificationOnlyChangeIsAnAlter(t *testing.T) {
	source := usersWithEmail("Low")
	target := usersWithEmail("High")

	ops := migration.Diff(source, target)
	require.Len(t, ops, 1)
	alter, ok := ops[0].(*migration.AlterColumn)
	require.True(t, ok)
	assert.True(t, alter.Column.SameStructure(alter.Old))
}

func TestDiff_RenameTable(t *testing.T) {
	source := mustParse(t, `
tables:
  - name: Users
    columns: [{name: Id, type: int}]
`)
	target := mustParse(t, `
tables:
  - schema: crm
    name: Members
    renamed_from: dbo.Users
    columns: [{name: Id, type: int}]
`)
	ops := migration.Diff(source, target)
	require.Len(t, ops, 1)
	rename, ok := ops[0].(*migration.RenameTable)
	require.True(t, ok)
	assert.Equal(t, "Users", rename.Name)
	assert.Equal(t, "crm", rename.NewSchema)
	assert.Equal(t, "Members", rename.NewName)
}

func TestDiffThenDecorate(t *testing.T) {
	source := mustParse(t, `
tables:
  - name: Users
    columns:
      - {name: Id, type: int, primary_key: true}
      - name: Email
        type: nvarchar
        length: 200
        classification: {label: Confidential, information_type: Contact Info, rank: Low}
      - name: Ssn
        type: char
        length: 11
        classification: {label: Highly Confidential, information_type: National ID, rank: Critical}
`)
	target := mustParse(t, `
tables:
  - name: Users
    columns:
      - {name: Id, type: int, primary_key: true}
      - name: Email
        type: nvarchar
        length: 200
        classification: {label: Confidential, information_type: Contact Info, rank: High}
  - name: Admins
    columns:
      - {name: Id, type: int, primary_key: true}
      - name: Email
        type: nvarchar
        length: 200
        classification: {label: Confidential, information_type: Contact Info, rank: Medium}
`)
	ops := migration.Decorate(source, target, migration.Diff(source, target))
	assert.Equal(t, []string{
		"RemoveClassification dbo.Users.Ssn",
		"DropColumn dbo.Users.Ssn",
		"AlterColumn dbo.Users.Email",
		"RemoveClassification dbo.Users.Email",
		`CreateClassification dbo.Users.Email {label="Confidential" infoType="Contact Info" rank="High"}`,
		"CreateTable dbo.Admins (2 columns)",
		`CreateClassification dbo.Admins.Email {label="Confidential" infoType="Contact Info" rank="Medium"}`,
	}, describe(ops))
}

func TestDiffThenDecorate_RenamedAndChangedColumn(t *testing.T) {
	const source = `
tables:
  - name: Users
    columns:
      - name: Email
        type: nvarchar
        length: 200
        classification: {label: Confidential, information_type: Email Address, rank: Low}
`
	cases := []struct {
		name   string
		target string
		want   []string
	}{
		{
			name: "classification changed",
			target: `
tables:
  - name: Users
    columns:
      - name: EmailAddress
        renamed_from: Email
        type: nvarchar
        length: 200
        classification: {label: Confidential, information_type: Email Address, rank: High}
`,
			want: []string{
				"RemoveClassification dbo.Users.Email",
				"RenameColumn dbo.Users.Email -> EmailAddress",
				`CreateClassification dbo.Users.EmailAddress {label="Confidential" infoType="Email Address" rank="High"}`,
				"AlterColumn dbo.Users.EmailAddress",
			},
		},
		{
			name: "type changed, classification kept",
			target: `
tables:
  - name: Users
    columns:
      - name: EmailAddress
        renamed_from: Email
        type: nvarchar
        length: 320
        classification: {label: Confidential, information_type: Email Address, rank: Low}
`,
			want: []string{
				"RenameColumn dbo.Users.Email -> EmailAddress",
				"AlterColumn dbo.Users.EmailAddress",
			},
		},
		{
			name: "classification dropped with type change",
			target: `
tables:
  - name: Users
    columns:
      - {name: EmailAddress, renamed_from: Email, type: nvarchar, length: 320}
`,
			want: []string{
				"RemoveClassification dbo.Users.Email",
				"RenameColumn dbo.Users.Email -> EmailAddress",
				"AlterColumn dbo.Users.EmailAddress",
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := mustParse(t, source)
			tgt := mustParse(t, tc.target)

			ops := migration.Decorate(src, tgt, migration.Diff(src, tgt))
			assert.Equal(t, tc.want, describe(ops))
		})
	}
}

func TestDiff_SameTableNameInTwoSchemas(t *testing.T) {
	target := mustParse(t, `
tables:
  - schema: dbo
    name: Users
    columns:
      - name: Email
        type: nvarchar
        classification: {label: Confidential, information_type: Email Address, rank: Medium}
  - schema: hr
    name: Users
    columns:
      - name: Salary
        type: decimal
        classification: {label: Highly Confidential, information_type: Financial, rank: High}
`)
	cases := []struct {
		name           string
		source, target *schema.Snapshot
		want           []string
	}{
		{
			name:   "create",
			target: target,
			want: []string{
				"CreateTable dbo.Users (1 columns)",
				`CreateClassification dbo.Users.Email {label="Confidential" infoType="Email Address" rank="Medium"}`,
				"CreateTable hr.Users (1 columns)",
				`CreateClassification hr.Users.Salary {label="Highly Confidential" infoType="Financial" rank="High"}`,
			},
		},
		{
			name:   "drop",
			source: target,
			want: []string{
				"RemoveClassification hr.Users.Salary",
				"DropTable hr.Users",
				"RemoveClassification dbo.Users.Email",
				"DropTable dbo.Users",
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ops := migration.Decorate(tc.source, tc.target, migration.Diff(tc.source, tc.target))
			assert.Equal(t, tc.want, describe(ops))
		})
	}
}
