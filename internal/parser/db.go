package parser

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"muddy/internal/model"

	_ "github.com/go-sql-driver/mysql"
)

// MariaDBParser loads rules from the cfg_mud_rule table. List columns
// (match_types, local_ports, remote_ports) hold JSON arrays.
type MariaDBParser struct {
	db     *sql.DB
	device string

	Rules []model.Rule
}

// NewMariaDBParser connects to dsn. A non-empty device restricts loading
// to rows with that device_name.
func NewMariaDBParser(dsn, device string) (*MariaDBParser, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return &MariaDBParser{
		db:     db,
		device: device,
	}, nil
}

func (p *MariaDBParser) Close() {
	p.db.Close()
}

func (p *MariaDBParser) Parse() error {
	if err := p.loadRules(); err != nil {
		return fmt.Errorf("failed to load rules: %w", err)
	}
	return nil
}

type dbRule struct {
	order       int
	id          int64
	aclName     sql.NullString
	direction   string
	target      sql.NullString
	protocol    sql.NullString
	matchJSON   string
	initiated   sql.NullString
	ipVersion   sql.NullString
	localJSON   sql.NullString
	remoteJSON  sql.NullString
	serviceName sql.NullString
}

func (p *MariaDBParser) loadRules() error {
	query := "SELECT id, rule_order, acl_name, direction, target, protocol, match_types, initiated, ip_version, local_ports, remote_ports, service FROM cfg_mud_rule"
	var args []any
	if p.device != "" {
		query += " WHERE device_name = ?"
		args = append(args, p.device)
	}
	query += " ORDER BY rule_order ASC, id ASC"

	rows, err := p.db.Query(query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	var loaded []dbRule
	for rows.Next() {
		var r dbRule
		if err := rows.Scan(&r.id, &r.order, &r.aclName, &r.direction, &r.target, &r.protocol,
			&r.matchJSON, &r.initiated, &r.ipVersion, &r.localJSON, &r.remoteJSON, &r.serviceName); err != nil {
			return err
		}
		loaded = append(loaded, r)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	sort.SliceStable(loaded, func(i, j int) bool {
		return loaded[i].order < loaded[j].order
	})

	for _, r := range loaded {
		rule, err := r.toRule()
		if err != nil {
			return err
		}
		p.Rules = append(p.Rules, rule)
	}
	return nil
}

func (r dbRule) toRule() (model.Rule, error) {
	source := "cfg_mud_rule:" + strconv.FormatInt(r.id, 10)
	raw := rawRule{
		Name:      r.aclName.String,
		Direction: r.direction,
		Target:    r.target.String,
		Protocol:  r.protocol.String,
		Initiated: r.initiated.String,
		IPVersion: r.ipVersion.String,
		Service:   r.serviceName.String,
		Source:    source,
	}
	if err := json.Unmarshal([]byte(r.matchJSON), &raw.Match); err != nil {
		return model.Rule{}, fmt.Errorf("%s: match_types: %w", source, err)
	}
	var err error
	if raw.LocalPorts, err = jsonPorts(r.localJSON); err != nil {
		return model.Rule{}, fmt.Errorf("%s: local_ports: %w", source, err)
	}
	if raw.RemotePorts, err = jsonPorts(r.remoteJSON); err != nil {
		return model.Rule{}, fmt.Errorf("%s: remote_ports: %w", source, err)
	}
	return raw.toRule()
}

// jsonPorts decodes a JSON array of port numbers into strings for rawRule.
func jsonPorts(col sql.NullString) ([]string, error) {
	if !col.Valid || col.String == "" {
		return nil, nil
	}
	var ports []int
	if err := json.Unmarshal([]byte(col.String), &ports); err != nil {
		return nil, err
	}
	items := make([]string, 0, len(ports))
	for _, port := range ports {
		items = append(items, strconv.Itoa(port))
	}
	return items, nil
}
