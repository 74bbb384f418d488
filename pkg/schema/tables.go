package schema

import (
	"fmt"
	"strings"

	"geostore/pkg/common/database"
	"geostore/pkg/common/graph"
)

// Table is one backing table with the tables its foreign keys reference.
// DDL uses $ID, $REF, $TS and $TRUE for dialect specific types.
type Table struct {
	Name       string
	References []string
	DDL        string
}

// Tables is the GeoStore schema.
var Tables = []Table{
	{
		Name: "gs_category",
		DDL:  "CREATE TABLE gs_category (id $ID, name VARCHAR(255) NOT NULL)",
	},
	{
		Name:       "gs_resource",
		References: []string{"gs_category"},
		DDL: "CREATE TABLE gs_resource (id $ID, name VARCHAR(255) NOT NULL, description TEXT NULL, " +
			"metadata TEXT NULL, creation $TS NOT NULL, last_update $TS NULL, creator VARCHAR(255) NULL, " +
			"editor VARCHAR(255) NULL, advertised BOOLEAN NOT NULL DEFAULT $TRUE, category_id $REF NOT NULL, " +
			"CONSTRAINT fk_resource_category FOREIGN KEY (category_id) REFERENCES gs_category(id))",
	},
	{
		Name:       "gs_stored_data",
		References: []string{"gs_resource"},
		DDL: "CREATE TABLE gs_stored_data (id $ID, data TEXT NULL, resource_id $REF NOT NULL, " +
			"CONSTRAINT fk_data_resource FOREIGN KEY (resource_id) REFERENCES gs_resource(id))",
	},
	{
		Name:       "gs_attribute",
		References: []string{"gs_resource"},
		DDL: "CREATE TABLE gs_attribute (id $ID, name VARCHAR(255) NOT NULL, type VARCHAR(255) NOT NULL, " +
			"value VARCHAR(255) NULL, resource_id $REF NOT NULL, " +
			"CONSTRAINT fk_attribute_resource FOREIGN KEY (resource_id) REFERENCES gs_resource(id))",
	},
	{
		Name: "gs_user",
		DDL:  "CREATE TABLE gs_user (id $ID, name VARCHAR(255) NOT NULL, password VARCHAR(255) NULL, role VARCHAR(255) NOT NULL)",
	},
	{
		Name:       "gs_user_attribute",
		References: []string{"gs_user"},
		DDL: "CREATE TABLE gs_user_attribute (id $ID, name VARCHAR(255) NOT NULL, type VARCHAR(255) NOT NULL, " +
			"value VARCHAR(255) NULL, user_id $REF NOT NULL, " +
			"CONSTRAINT fk_user_attribute FOREIGN KEY (user_id) REFERENCES gs_user(id))",
	},
	{
		Name: "gs_usergroup",
		DDL:  "CREATE TABLE gs_usergroup (id $ID, group_name VARCHAR(255) NOT NULL)",
	},
	{
		Name:       "gs_security",
		References: []string{"gs_resource", "gs_user", "gs_usergroup"},
		DDL: "CREATE TABLE gs_security (id $ID, can_read BOOLEAN NOT NULL, can_write BOOLEAN NOT NULL, " +
			"resource_id $REF NOT NULL, user_id $REF NULL, group_id $REF NULL, " +
			"CONSTRAINT fk_security_resource FOREIGN KEY (resource_id) REFERENCES gs_resource(id), " +
			"CONSTRAINT fk_security_user FOREIGN KEY (user_id) REFERENCES gs_user(id), " +
			"CONSTRAINT fk_security_group FOREIGN KEY (group_id) REFERENCES gs_usergroup(id))",
	},
	{
		Name:       "gs_usergroup_members",
		References: []string{"gs_user", "gs_usergroup"},
		DDL: "CREATE TABLE gs_usergroup_members (user_id $REF NOT NULL, group_id $REF NOT NULL, " +
			"PRIMARY KEY (user_id, group_id), " +
			"CONSTRAINT fk_member_user FOREIGN KEY (user_id) REFERENCES gs_user(id), " +
			"CONSTRAINT fk_member_group FOREIGN KEY (group_id) REFERENCES gs_usergroup(id))",
	},
}

var typeMappings = map[string]*strings.Replacer{
	database.SQLite: strings.NewReplacer(
		"$ID", "INTEGER PRIMARY KEY AUTOINCREMENT",
		"$REF", "INTEGER",
		"$TS", "DATETIME",
		"$TRUE", "1",
	),
	database.Postgres: strings.NewReplacer(
		"$ID", "BIGSERIAL PRIMARY KEY",
		"$REF", "BIGINT",
		"$TS", "TIMESTAMP",
		"$TRUE", "TRUE",
	),
}

// CreateOrder returns table names with referenced tables first.
func CreateOrder() ([]string, error) {
	names := make([]string, 0, len(Tables))
	refs := make(map[string][]string, len(Tables))
	for _, t := range Tables {
		names = append(names, t.Name)
		if len(t.References) > 0 {
			refs[t.Name] = t.References
		}
	}
	return graph.Sort(names, refs)
}

// DropOrder returns table names with referencing tables first.
func DropOrder() ([]string, error) {
	order, err := CreateOrder()
	if err != nil {
		return nil, err
	}
	return graph.Reverse(order), nil
}

func tableByName(name string) Table {
	for _, t := range Tables {
		if t.Name == name {
			return t
		}
	}
	return Table{}
}

// createStatement renders the DDL of table for dialect.
func createStatement(dialect, table string) (string, error) {
	r, ok := typeMappings[dialect]
	if !ok {
		return "", fmt.Errorf("unsupported dialect %q", dialect)
	}
	return r.Replace(tableByName(table).DDL), nil
}
