package service

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medreport-analyzer/internal/domain"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestExtractorService_ExtractLabValues(t *testing.T) {
	service := NewExtractorService(newTestLogger())

	tests := []struct {
		name      string
		text      string
		wantTest  string
		wantValue float64
		wantUnit  string
	}{
		{
			name:      "Hemoglobin with unit",
			text:      "Hemoglobin: 14.5 g/dL",
			wantTest:  "Hemoglobin",
			wantValue: 14.5,
			wantUnit:  "g/dL",
		},
		{
			name:      "Synonym maps to canonical name",
			text:      "Hb: 13.2",
			wantTest:  "Hemoglobin",
			wantValue: 13.2,
			wantUnit:  "",
		},
		{
			name:      "Comma separated thousands",
			text:      "WBC: 7,500 /cumm",
			wantTest:  "WBC",
			wantValue: 7500,
			wantUnit:  "/cumm",
		},
		{
			name:      "Case insensitive label",
			text:      "fbs: 95 mg/dL",
			wantTest:  "FBS",
			wantValue: 95,
			wantUnit:  "mg/dL",
		},
		{
			name:      "Whitespace separator instead of colon",
			text:      "Creatinine  1.1 mg/dL",
			wantTest:  "Creatinine",
			wantValue: 1.1,
			wantUnit:  "mg/dL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entities := service.Extract(tt.text)
			require.Len(t, entities.LabValues, 1)

			obs := entities.LabValues[0]
			assert.Equal(t, tt.wantTest, obs.Test)
			assert.Equal(t, tt.wantValue, obs.Value)
			assert.Equal(t, tt.wantUnit, obs.Unit)
		})
	}
}

func TestExtractorService_FirstMatchWins(t *testing.T) {
	service := NewExtractorService(newTestLogger())

	text := "Hemoglobin: 14.5 g/dL\nHb: 9.0 g/dL"
	entities := service.Extract(text)

	require.Len(t, entities.LabValues, 1)
	assert.Equal(t, "Hemoglobin", entities.LabValues[0].Test)
	assert.Equal(t, 14.5, entities.LabValues[0].Value)
}

func TestExtractorService_MultipleTests(t *testing.T) {
	service := NewExtractorService(newTestLogger())

	text := `Complete Blood Count
Hemoglobin: 13.8 g/dL
WBC: 8200 /cumm
Platelet: 250000 /cumm
FBS: 104 mg/dL
TSH: 2.1 mIU/L`

	entities := service.Extract(text)
	require.Len(t, entities.LabValues, 5)

	byTest := make(map[string]domain.LabObservation)
	for _, obs := range entities.LabValues {
		byTest[obs.Test] = obs
	}
	assert.Equal(t, 13.8, byTest["Hemoglobin"].Value)
	assert.Equal(t, 8200.0, byTest["WBC"].Value)
	assert.Equal(t, 250000.0, byTest["Platelet"].Value)
	assert.Equal(t, 104.0, byTest["FBS"].Value)
	assert.Equal(t, 2.1, byTest["TSH"].Value)
}

func TestExtractorService_NoLabValues(t *testing.T) {
	service := NewExtractorService(newTestLogger())

	entities := service.Extract("Patient presented with mild fever and sore throat.")
	assert.Empty(t, entities.LabValues)
}

func TestExtractorService_Keywords(t *testing.T) {
	service := NewExtractorService(newTestLogger())

	text := "Patient is on METFORMIN and aspirin for diabetes and hypertension. History of fatty liver."
	entities := service.Extract(text)

	assert.Equal(t, []string{"Metformin", "Aspirin"}, entities.Medications)
	assert.Contains(t, entities.Diagnoses, "Diabetes")
	assert.Contains(t, entities.Diagnoses, "Hypertension")
	assert.Contains(t, entities.Diagnoses, "Fatty Liver")
}

func TestExtractorService_PatientInfo(t *testing.T) {
	service := NewExtractorService(newTestLogger())

	tests := []struct {
		name       string
		text       string
		wantAge    int
		wantGender domain.Gender
		wantDate   string
	}{
		{
			name:       "Male with age and date",
			text:       "Name: John Doe, Male, Age: 45, Date: 2024-01-15",
			wantAge:    45,
			wantGender: domain.GenderMale,
			wantDate:   "2024-01-15",
		},
		{
			name:       "Female not misread as male",
			text:       "Patient is female, Age: 31",
			wantAge:    31,
			wantGender: domain.GenderFemale,
		},
		{
			name:       "Honorific Mrs",
			text:       "Mrs. Sharma, Age: 52",
			wantAge:    52,
			wantGender: domain.GenderFemale,
		},
		{
			name:       "Both words present classifies male",
			text:       "male patient accompanied by female relative",
			wantGender: domain.GenderMale,
		},
		{
			name: "Nothing recognized",
			text: "no demographics here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := service.extractPatientInfo(tt.text)
			assert.Equal(t, tt.wantAge, info.Age)
			assert.Equal(t, tt.wantGender, info.Gender)
			assert.Equal(t, tt.wantDate, info.ReportDate)
		})
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"metformin", "Metformin"},
		{"fatty liver", "Fatty Liver"},
		{"HGB", "Hgb"},
		{"kidney disease", "Kidney Disease"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, titleCase(tt.input))
	}
}
