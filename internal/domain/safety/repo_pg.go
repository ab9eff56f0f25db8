package safety

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sitedock/sitedock/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const incCols = `id, case_number, source_type, source_id, project_id,
	incident_date, incident_time, location_description, what_happened,
	injured_employee_name, injured_employee_job_title, injury_involved,
	injury_category, body_part_affected, witness_name, witness_contact,
	medical_treatment,
	is_privacy_case, is_osha_recordable, incident_classification, injury_type,
	resulted_in_death, resulted_in_days_away, resulted_in_transfer,
	resulted_in_other_recordable, days_away_from_work, days_on_job_transfer,
	physician_name, facility_name, treated_in_er, hospitalized_overnight,
	corrective_actions, corrective_actions_due, review_notes,
	status, reported_at, reporter_id, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, inc *Incident) error {
	inc.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO safety_incident (
			id, case_number, source_type, source_id, project_id,
			incident_date, incident_time, location_description, what_happened,
			injured_employee_name, injured_employee_job_title, injury_involved,
			injury_category, body_part_affected, witness_name, witness_contact,
			medical_treatment,
			is_privacy_case, is_osha_recordable, incident_classification, injury_type,
			resulted_in_death, resulted_in_days_away, resulted_in_transfer,
			resulted_in_other_recordable, days_away_from_work, days_on_job_transfer,
			physician_name, facility_name, treated_in_er, hospitalized_overnight,
			corrective_actions, corrective_actions_due, review_notes,
			status, reported_at, reporter_id
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,
			$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,
			$21,$22,$23,$24,$25,$26,$27,$28,$29,$30,
			$31,$32,$33,$34,$35,$36,$37
		)`,
		inc.ID, inc.CaseNumber, inc.SourceType, inc.SourceID, inc.ProjectID,
		inc.IncidentDate, inc.IncidentTime, inc.LocationDescription, inc.WhatHappened,
		inc.InjuredEmployeeName, inc.InjuredEmployeeJobTitle, inc.InjuryInvolved,
		inc.InjuryCategory, inc.BodyPartAffected, inc.WitnessName, inc.WitnessContact,
		inc.MedicalTreatment,
		inc.IsPrivacyCase, inc.IsOSHARecordable, inc.IncidentClassification, inc.InjuryType,
		inc.ResultedInDeath, inc.ResultedInDaysAway, inc.ResultedInTransfer,
		inc.ResultedInOtherRecordable, inc.DaysAwayFromWork, inc.DaysOnJobTransfer,
		inc.PhysicianName, inc.FacilityName, inc.TreatedInER, inc.HospitalizedOvernight,
		inc.CorrectiveActions, inc.CorrectiveActionsDue, inc.ReviewNotes,
		inc.Status, inc.ReportedAt, inc.ReporterID,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Incident, error) {
	return scanIncident(r.conn(ctx).QueryRow(ctx,
		`SELECT `+incCols+` FROM safety_incident WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, inc *Incident) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE safety_incident SET
			is_privacy_case=$2, is_osha_recordable=$3, incident_classification=$4,
			injury_type=$5, resulted_in_death=$6, resulted_in_days_away=$7,
			resulted_in_transfer=$8, resulted_in_other_recordable=$9,
			days_away_from_work=$10, days_on_job_transfer=$11,
			physician_name=$12, facility_name=$13, treated_in_er=$14,
			hospitalized_overnight=$15, corrective_actions=$16,
			corrective_actions_due=$17, review_notes=$18, status=$19,
			updated_at=NOW()
		WHERE id = $1`,
		inc.ID, inc.IsPrivacyCase, inc.IsOSHARecordable, inc.IncidentClassification,
		inc.InjuryType, inc.ResultedInDeath, inc.ResultedInDaysAway,
		inc.ResultedInTransfer, inc.ResultedInOtherRecordable,
		inc.DaysAwayFromWork, inc.DaysOnJobTransfer,
		inc.PhysicianName, inc.FacilityName, inc.TreatedInER,
		inc.HospitalizedOvernight, inc.CorrectiveActions,
		inc.CorrectiveActionsDue, inc.ReviewNotes, inc.Status,
	)
	return err
}

func (r *repoPG) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Incident, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.SourceType != "" {
		args = append(args, filter.SourceType)
		where = append(where, fmt.Sprintf("source_type = $%d", len(args)))
	}
	if filter.ProjectID != nil {
		args = append(args, *filter.ProjectID)
		where = append(where, fmt.Sprintf("project_id = $%d", len(args)))
	}
	if filter.Recordable != nil {
		args = append(args, *filter.Recordable)
		where = append(where, fmt.Sprintf("is_osha_recordable = $%d", len(args)))
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM safety_incident WHERE `+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx,
		fmt.Sprintf(`SELECT %s FROM safety_incident WHERE %s ORDER BY reported_at DESC LIMIT $%d OFFSET $%d`,
			incCols, whereClause, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var incs []*Incident
	for rows.Next() {
		inc, err := scanIncidentRows(rows)
		if err != nil {
			return nil, 0, err
		}
		incs = append(incs, inc)
	}
	return incs, total, nil
}

func (r *repoPG) NextCaseNumber(ctx context.Context, year int) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO safety_case_counter (year, last_value)
		VALUES ($1, 1)
		ON CONFLICT (year)
		DO UPDATE SET last_value = safety_case_counter.last_value + 1
		RETURNING last_value`, year).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("advancing case counter: %w", err)
	}
	return n, nil
}

func scanIncident(row pgx.Row) (*Incident, error) {
	var i Incident
	if err := scanInto(row, &i); err != nil {
		return nil, err
	}
	return &i, nil
}

func scanIncidentRows(rows pgx.Rows) (*Incident, error) {
	var i Incident
	if err := scanInto(rows, &i); err != nil {
		return nil, err
	}
	return &i, nil
}

func scanInto(row pgx.Row, i *Incident) error {
	return row.Scan(
		&i.ID, &i.CaseNumber, &i.SourceType, &i.SourceID, &i.ProjectID,
		&i.IncidentDate, &i.IncidentTime, &i.LocationDescription, &i.WhatHappened,
		&i.InjuredEmployeeName, &i.InjuredEmployeeJobTitle, &i.InjuryInvolved,
		&i.InjuryCategory, &i.BodyPartAffected, &i.WitnessName, &i.WitnessContact,
		&i.MedicalTreatment,
		&i.IsPrivacyCase, &i.IsOSHARecordable, &i.IncidentClassification, &i.InjuryType,
		&i.ResultedInDeath, &i.ResultedInDaysAway, &i.ResultedInTransfer,
		&i.ResultedInOtherRecordable, &i.DaysAwayFromWork, &i.DaysOnJobTransfer,
		&i.PhysicianName, &i.FacilityName, &i.TreatedInER, &i.HospitalizedOvernight,
		&i.CorrectiveActions, &i.CorrectiveActionsDue, &i.ReviewNotes,
		&i.Status, &i.ReportedAt, &i.ReporterID, &i.CreatedAt, &i.UpdatedAt,
	)
}
