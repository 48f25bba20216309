package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/noah-isme/atp-planner-api/internal/dto"
	"github.com/noah-isme/atp-planner-api/internal/models"
	"github.com/noah-isme/atp-planner-api/internal/planner"
	"github.com/noah-isme/atp-planner-api/pkg/genai"
)

var objectivesSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"subject":     {Type: genai.TypeString},
		"fase":        {Type: genai.TypeString},
		"description": {Type: genai.TypeString},
		"elements": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"elementName":         {Type: genai.TypeString},
					"capaianPembelajaran": {Type: genai.TypeString},
					"allocations": {
						Type: genai.TypeArray,
						Items: &genai.Schema{
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"className": {Type: genai.TypeString},
								"tujuanPembelajaran": {
									Type:        genai.TypeArray,
									Items:       &genai.Schema{Type: genai.TypeString},
									Description: "Tujuan Pembelajaran yang spesifik untuk kelas ini",
								},
							},
							Required: []string{"className", "tujuanPembelajaran"},
						},
					},
				},
				Required: []string{"elementName", "capaianPembelajaran", "allocations"},
			},
		},
	},
	Required: []string{"subject", "fase", "description", "elements"},
}

var pathwaySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"updates": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"elementName": {Type: genai.TypeString},
					"tpDetails": {
						Type: genai.TypeArray,
						Items: &genai.Schema{
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"originalTp": {Type: genai.TypeString, Description: "Teks TP persis seperti pada masukan"},
								"atpItems": {
									Type: genai.TypeArray,
									Items: &genai.Schema{
										Type: genai.TypeObject,
										Properties: map[string]*genai.Schema{
											"alur": {Type: genai.TypeString, Description: "Kegiatan untuk satu pertemuan"},
										},
										Required: []string{"alur"},
									},
								},
							},
							Required: []string{"originalTp", "atpItems"},
						},
					},
				},
				Required: []string{"elementName", "tpDetails"},
			},
		},
	},
	Required: []string{"updates"},
}

type objectivesReply struct {
	Subject     string `json:"subject"`
	Phase       string `json:"fase"`
	Description string `json:"description"`
	Elements    []struct {
		Name            string `json:"elementName"`
		LearningOutcome string `json:"capaianPembelajaran"`
		Allocations     []struct {
			ClassName  string   `json:"className"`
			Objectives []string `json:"tujuanPembelajaran"`
		} `json:"allocations"`
	} `json:"elements"`
}

// curriculum converts the reply, naming classes as the phase does.
func (r objectivesReply) curriculum(subject string, phase models.Phase) models.CurriculumData {
	data := models.CurriculumData{
		Subject:     subject,
		Phase:       phase.Name,
		PhaseID:     phase.ID,
		Description: r.Description,
		Elements:    make([]models.Element, 0, len(r.Elements)),
	}
	for _, el := range r.Elements {
		element := models.Element{
			Name:            strings.TrimSpace(el.Name),
			LearningOutcome: el.LearningOutcome,
			Allocations:     make([]models.ClassAllocation, 0, len(el.Allocations)),
		}
		for _, alloc := range el.Allocations {
			element.Allocations = append(element.Allocations, models.ClassAllocation{
				ClassName:  canonicalClass(phase, alloc.ClassName),
				Objectives: append([]string{}, alloc.Objectives...),
			})
		}
		data.Elements = append(data.Elements, element)
	}
	return data
}

func canonicalClass(phase models.Phase, name string) string {
	trimmed := strings.TrimSpace(name)
	for _, class := range phase.Classes {
		if strings.EqualFold(class, trimmed) {
			return class
		}
	}
	return trimmed
}

type pathwayReply struct {
	Updates []struct {
		Element string `json:"elementName"`
		Details []struct {
			Objective string `json:"originalTp"`
			Items     []struct {
				Activity string `json:"alur"`
			} `json:"atpItems"`
		} `json:"tpDetails"`
	} `json:"updates"`
}

func (r pathwayReply) generated() []planner.GeneratedElement {
	out := make([]planner.GeneratedElement, 0, len(r.Updates))
	for _, u := range r.Updates {
		el := planner.GeneratedElement{Element: u.Element}
		for _, d := range u.Details {
			obj := planner.GeneratedObjective{Objective: d.Objective}
			for _, item := range d.Items {
				if activity := strings.TrimSpace(item.Activity); activity != "" {
					obj.Activities = append(obj.Activities, activity)
				}
			}
			el.Objectives = append(el.Objectives, obj)
		}
		out = append(out, el)
	}
	return out
}

func objectivesPrompt(subject string, phase models.Phase) string {
	classes := strings.Join(phase.Classes, " dan ")
	return fmt.Sprintf(`Anda adalah ahli kurikulum Sekolah Dasar untuk Kurikulum Merdeka.
Rumuskan Capaian Pembelajaran (CP) per elemen lalu turunkan Tujuan Pembelajaran (TP) untuk setiap kelas. ATP belum diperlukan.

Mata pelajaran: %s
Fase: %s
Kelas: %s

Ketentuan:
1. Cantumkan setiap elemen beserta CP terbarunya.
2. Tulis TP yang spesifik untuk %s.
3. TP kelas yang lebih tinggi harus lebih kompleks daripada kelas sebelumnya.

Jawab hanya dengan JSON sesuai skema.`, subject, phase.Name, classes, classes)
}

type pathwayContext struct {
	Element         string   `json:"elementName"`
	LearningOutcome string   `json:"capaianPembelajaran"`
	Objectives      []string `json:"tujuanPembelajaran"`
}

func pathwayPrompt(data models.CurriculumData, className string, alloc *dto.AllocationResponse) (string, error) {
	objectives := data.ObjectivesFor(className)
	rows := make([]pathwayContext, 0, len(data.Elements))
	for i, el := range data.Elements {
		rows = append(rows, pathwayContext{
			Element:         el.Name,
			LearningOutcome: el.LearningOutcome,
			Objectives:      append([]string{}, objectives[i]...),
		})
	}
	encoded, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode pathway context: %w", err)
	}
	meetings := len(alloc.Plan.Entries)
	return fmt.Sprintf(`Anda menyusun Alur Tujuan Pembelajaran (ATP) per pertemuan untuk Sekolah Dasar (Kurikulum Merdeka).

Mata pelajaran: %s (%s)
Target JP: %d
Jumlah pertemuan: %d

Ketentuan:
1. Tulis tepat %d kegiatan berurutan, satu kegiatan untuk satu pertemuan.
2. Pecah materi agar setiap kegiatan muat dalam satu pertemuan.
3. Batasi pada kegiatan intrakurikuler.
4. Kelompokkan kegiatan per elemen dan per TP, dan salin teks TP apa adanya ke originalTp.

Elemen dan TP:
%s`, data.Subject, className, alloc.Plan.TargetTotal, meetings, meetings, encoded), nil
}
