package main

import (
	"context"
	"log"

	"github.com/zatekoja/doctordirectory/internal/adapters/database"
	"github.com/zatekoja/doctordirectory/internal/application/services"
	"github.com/zatekoja/doctordirectory/internal/domain/entities"
	"github.com/zatekoja/doctordirectory/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/doctordirectory/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()
	if err := database.EnsureSchema(ctx, pgClient); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}

	service := services.NewDoctorService(database.NewDoctorAdapter(pgClient))

	count, err := service.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count doctors: %v", err)
	}
	if count > 0 {
		log.Printf("Skipping seed, %d doctors already present", count)
		return
	}

	doctors := []*entities.Doctor{
		{Name: "Dr. Rana Haddad", Specialty: "Cardiology", City: "Beirut", Country: "Lebanon", Clinic: "Hamra Heart Center", Fee: entities.IntPtr(80), Rating: entities.Float64Ptr(4.8)},
		{Name: "Dr. Karim Saleh", Specialty: "Dermatology", City: "Beirut", Country: "Lebanon", Clinic: "Achrafieh Skin Clinic", Fee: entities.IntPtr(60), Rating: entities.Float64Ptr(4.5)},
		{Name: "Dr. Lina Khoury", Specialty: "Neurology", City: "Tripoli", Country: "Lebanon", Fee: entities.IntPtr(90), Rating: entities.Float64Ptr(4.7)},
		{Name: "Dr. Omar Nasser", Specialty: "General Practice", City: "Sidon", Country: "Lebanon", Fee: entities.IntPtr(30), Rating: entities.Float64Ptr(4.1)},
		{Name: "Dr. Maya Fares", Specialty: "Pediatrics", City: "Beirut", Country: "Lebanon", Fee: entities.IntPtr(50)},
		{Name: "Dr. Elias Aoun", Specialty: "Gastroenterology", City: "Zahle", Country: "Lebanon", Rating: entities.Float64Ptr(4.3)},
		{Name: "Dr. Nour Hamdan", Specialty: "Otolaryngology (ENT)", City: "Beirut", Country: "Lebanon", Fee: entities.IntPtr(70), Rating: entities.Float64Ptr(4.6)},
		{Name: "Dr. Samir Chami", Specialty: "Orthopedics", City: "Jounieh", Country: "Lebanon", Fee: entities.IntPtr(100), Rating: entities.Float64Ptr(3.9)},
	}

	for _, d := range doctors {
		if err := service.Create(ctx, d); err != nil {
			log.Fatalf("Failed to seed %s: %v", d.Name, err)
		}
	}
	log.Printf("Seeded %d doctors", len(doctors))
}
