package repository

import (
	"context"

	"github.com/noah-isme/atp-planner-api/internal/models"
	"github.com/noah-isme/atp-planner-api/pkg/dateutil"
)

// StaticReferenceVersion identifies the built-in data set.
const StaticReferenceVersion = "builtin-2025-2026"

// StaticReferenceRepository serves the built-in 2025/2026 calendar and the
// Permendikdasmen No. 13/2025 intracurricular JP table.
type StaticReferenceRepository struct{}

// NewStaticReferenceRepository constructs the repository.
func NewStaticReferenceRepository() *StaticReferenceRepository {
	return &StaticReferenceRepository{}
}

// Load returns a fresh copy of the built-in data.
func (r *StaticReferenceRepository) Load(ctx context.Context) (*models.ReferenceData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return BuiltinReferenceData(), nil
}

func exc(start, end, description string, kind models.ExceptionKind) models.CalendarException {
	return models.CalendarException{
		Start:       dateutil.MustParse(start),
		End:         dateutil.MustParse(end),
		Description: description,
		Kind:        kind,
	}
}

func variantExc(start, end, description string, kind models.ExceptionKind, category, variant string) models.CalendarException {
	e := exc(start, end, description, kind)
	e.Category = category
	e.Variant = variant
	return e
}

func twoWay(id, label, v1, v2 string) models.ExceptionCategory {
	return models.ExceptionCategory{
		ID:      id,
		Label:   label,
		Default: "v1",
		Options: []models.VariantOption{{ID: "v1", Label: v1}, {ID: "v2", Label: v2}},
	}
}

func classTargets(k1, k2, k3, k4, k5, k6 int) map[string]int {
	return map[string]int{
		"Kelas 1": k1, "Kelas 2": k2, "Kelas 3": k3,
		"Kelas 4": k4, "Kelas 5": k5, "Kelas 6": k6,
	}
}

// BuiltinReferenceData builds the built-in reference set.
func BuiltinReferenceData() *models.ReferenceData {
	const (
		holiday  = models.ExceptionKindHoliday
		exam     = models.ExceptionKindExam
		activity = models.ExceptionKindActivity
	)

	return &models.ReferenceData{
		Version: StaticReferenceVersion,
		Exceptions: []models.CalendarException{
			exc("2025-07-14", "2025-07-16", "MPLS (Masa Pengenalan Lingkungan Sekolah)", activity),
			exc("2025-07-21", "2025-07-24", "Simulasi Asesmen Nasional", activity),
			exc("2025-08-17", "2025-08-17", "HUT RI Ke-80", holiday),
			exc("2025-09-05", "2025-09-05", "Maulid Nabi Muhammad SAW", holiday),

			variantExc("2025-09-08", "2025-09-11", "Gladi Bersih AN SD (Gelombang 1)", exam, "anbk_gladi", "v1"),
			variantExc("2025-09-15", "2025-09-18", "Gladi Bersih AN SD (Gelombang 2)", exam, "anbk_gladi", "v2"),

			variantExc("2025-09-22", "2025-09-25", "Pelaksanaan AN SD (Tahap 1)", exam, "anbk_main", "v1"),
			variantExc("2025-09-29", "2025-10-02", "Pelaksanaan AN SD (Tahap 2)", exam, "anbk_main", "v2"),

			variantExc("2025-12-01", "2025-12-07", "Sumatif Akhir Semester 1 (Pekan 1)", exam, "sumatif_ganjil", "v1"),
			variantExc("2025-12-08", "2025-12-14", "Sumatif Akhir Semester 1 (Pekan 2)", exam, "sumatif_ganjil", "v2"),

			exc("2025-12-03", "2025-12-03", "Hari Disabilitas Internasional", activity),
			exc("2025-12-22", "2025-12-24", "Administrasi & Pembagian Rapor Smst 1", activity),
			exc("2025-12-25", "2025-12-26", "Natal & Cuti Bersama", holiday),

			variantExc("2025-12-29", "2026-01-10", "Libur Semester 1 (Utama)", holiday, "libur_smt1", "v1"),
			variantExc("2025-12-22", "2026-01-03", "Libur Semester 1 (Alternatif Awal)", holiday, "libur_smt1", "v2"),

			exc("2026-01-01", "2026-01-01", "Tahun Baru Masehi", holiday),
			exc("2026-01-16", "2026-01-16", "Isra Mi'raj", holiday),
			exc("2026-02-17", "2026-02-17", "Tahun Baru Imlek", holiday),
			exc("2026-02-20", "2026-02-23", "Perkiraan Libur Awal Ramadan", holiday),
			exc("2026-02-24", "2026-03-13", "Kegiatan Penumbuhan Budi Pekerti", activity),
			exc("2026-03-14", "2026-03-28", "Libur Idul Fitri", holiday),

			variantExc("2026-05-11", "2026-05-16", "Sumatif Akhir Jenjang SD (Pekan 1)", exam, "sumatif_jenjang", "v1"),
			variantExc("2026-05-18", "2026-05-23", "Sumatif Akhir Jenjang SD (Pekan 2)", exam, "sumatif_jenjang", "v2"),

			exc("2026-06-01", "2026-06-01", "Hari Lahir Pancasila", holiday),

			variantExc("2026-06-02", "2026-06-06", "Sumatif Akhir Tahun/Fase (Pekan 1)", exam, "sumatif_genap", "v1"),
			variantExc("2026-06-08", "2026-06-13", "Sumatif Akhir Tahun/Fase (Pekan 2)", exam, "sumatif_genap", "v2"),

			exc("2026-06-16", "2026-06-16", "Tahun Baru Islam", holiday),
			exc("2026-06-24", "2026-06-26", "Administrasi & Pembagian Rapor Smst 2", activity),

			variantExc("2026-06-29", "2026-07-11", "Libur Kenaikan Kelas (Utama)", holiday, "libur_smt2", "v1"),
			variantExc("2026-06-22", "2026-07-04", "Libur Kenaikan Kelas (Alternatif Awal)", holiday, "libur_smt2", "v2"),
		},
		Categories: []models.ExceptionCategory{
			twoWay("libur_smt1", "Libur Semester 1", "29 Des - 10 Jan (Utama)", "22 Des - 3 Jan (Alternatif)"),
			twoWay("libur_smt2", "Libur Kenaikan Kelas", "29 Jun - 11 Jul (Utama)", "22 Jun - 4 Jul (Alternatif)"),
			twoWay("anbk_gladi", "Gladi Bersih ANBK", "Gelombang 1 (8-11 Sep)", "Gelombang 2 (15-18 Sep)"),
			twoWay("anbk_main", "Pelaksanaan ANBK Utama", "Tahap 1 (22-25 Sep)", "Tahap 2 (29 Sep-2 Okt)"),
			twoWay("sumatif_ganjil", "Sumatif Smt 1", "Pekan 1 (1-7 Des)", "Pekan 2 (8-14 Des)"),
			twoWay("sumatif_jenjang", "Sumatif Jenjang (Kls 6)", "Pekan 1 (11-16 Mei)", "Pekan 2 (18-23 Mei)"),
			twoWay("sumatif_genap", "Sumatif Akhir Tahun", "Pekan 1 (2-6 Jun)", "Pekan 2 (8-13 Jun)"),
		},
		Standards: models.TargetHourTable{
			{Subject: "Bahasa Indonesia", Classes: classTargets(216, 252, 216, 216, 216, 192)},
			{Subject: "Matematika", Classes: classTargets(144, 180, 180, 180, 180, 160)},
			{Subject: "IPAS (Ilmu Pengetahuan Alam dan Sosial)", Classes: classTargets(0, 0, 180, 180, 180, 160)},
			{Subject: "PPKn (Pendidikan Pancasila)", Classes: classTargets(144, 144, 144, 144, 144, 128)},
			{Subject: "Seni Budaya", Classes: classTargets(108, 108, 108, 108, 108, 96)},
			{Subject: "PJOK (Pendidikan Jasmani, Olahraga, dan Kesehatan)", Classes: classTargets(108, 108, 108, 108, 108, 96)},
			{Subject: "Bahasa Inggris", Classes: classTargets(72, 72, 72, 72, 72, 64)},
			{Subject: "Pendidikan Agama Islam", Classes: classTargets(108, 108, 108, 108, 108, 96)},
			{Subject: "Pendidikan Agama Kristen", Classes: classTargets(108, 108, 108, 108, 108, 96)},
		},
		Subjects: []string{
			"Bahasa Indonesia",
			"Matematika",
			"IPAS (Ilmu Pengetahuan Alam dan Sosial)",
			"PPKn (Pendidikan Pancasila)",
			"Seni Budaya",
			"PJOK (Pendidikan Jasmani, Olahraga, dan Kesehatan)",
			"Bahasa Inggris",
			"Pendidikan Agama Islam",
			"Pendidikan Agama Kristen",
		},
		Phases: []models.Phase{
			{ID: "A", Name: "Fase A (Kelas 1 - 2)", Classes: []string{"Kelas 1", "Kelas 2"}},
			{ID: "B", Name: "Fase B (Kelas 3 - 4)", Classes: []string{"Kelas 3", "Kelas 4"}},
			{ID: "C", Name: "Fase C (Kelas 5 - 6)", Classes: []string{"Kelas 5", "Kelas 6"}},
		},
	}
}
