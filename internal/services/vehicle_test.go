package services

import (
	"errors"
	"testing"
)

func TestValidateVehicle(t *testing.T) {
	tests := []struct {
		name        string
		plate       string
		year        int
		vehicleType string
		wantErr     error
	}{
		{"old format plate", "ABC1234", 2020, "truck", nil},
		{"mercosul plate", "ABC1D23", 2020, "truck", nil},
		{"lowercase plate", "abc1234", 2020, "truck", ErrInvalidPlate},
		{"short plate", "AB1234", 2020, "truck", ErrInvalidPlate},
		{"mixed garbage", "1234ABC", 2020, "truck", ErrInvalidPlate},
		{"year too old", "ABC1234", 1899, "truck", ErrInvalidYear},
		{"year too new", "ABC1234", 2031, "truck", ErrInvalidYear},
		{"year lower bound", "ABC1234", 1900, "truck", nil},
		{"year upper bound", "ABC1234", 2030, "truck", nil},
		{"unknown type", "ABC1234", 2020, "motorcycle", ErrInvalidVehicleType},
		{"trailer type", "ABC1234", 2020, "trailer", nil},
		{"bus type", "ABC1234", 2020, "bus", nil},
		{"van type", "ABC1234", 2020, "van", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateVehicle(tt.plate, tt.year, tt.vehicleType)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validateVehicle(%q, %d, %q) = %v, want %v", tt.plate, tt.year, tt.vehicleType, err, tt.wantErr)
			}
		})
	}
}

func TestVehicleCreate_NormalizesPlate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVehicleService(db)

	vehicle, err := svc.Create(&CreateVehicleRequest{
		Plate:       "  abc1d23 ",
		Model:       "FH 540",
		Brand:       "Volvo",
		Year:        2022,
		VehicleType: "truck",
	}, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if vehicle.Plate != "ABC1D23" {
		t.Errorf("Plate = %q, want uppercase trimmed", vehicle.Plate)
	}
	if !vehicle.IsActive {
		t.Error("new vehicle should be active")
	}
}

func TestVehicleCreate_DuplicatePlate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVehicleService(db)

	req := &CreateVehicleRequest{Plate: "ABC1234", Model: "Actros", Brand: "Mercedes", Year: 2021, VehicleType: "truck"}
	if _, err := svc.Create(req, 1); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := svc.Create(req, 2); !errors.Is(err, ErrPlateTaken) {
		t.Fatalf("err = %v, want ErrPlateTaken", err)
	}
}

func TestVehicleGet_ScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVehicleService(db)

	vehicle, err := svc.Create(&CreateVehicleRequest{Plate: "ABC1234", Model: "Actros", Brand: "Mercedes", Year: 2021, VehicleType: "truck"}, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Get(vehicle.ID, 1); err != nil {
		t.Errorf("owner Get: %v", err)
	}
	if _, err := svc.Get(vehicle.ID, 2); !errors.Is(err, ErrVehicleNotFound) {
		t.Errorf("other user Get = %v, want ErrVehicleNotFound", err)
	}
}

func TestVehicleUpdate_RejectsInvalidPlate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVehicleService(db)

	vehicle, err := svc.Create(&CreateVehicleRequest{Plate: "ABC1234", Model: "Actros", Brand: "Mercedes", Year: 2021, VehicleType: "truck"}, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Update(vehicle.ID, 1, &UpdateVehicleRequest{Plate: "NOPE"}); !errors.Is(err, ErrInvalidPlate) {
		t.Errorf("Update = %v, want ErrInvalidPlate", err)
	}
}

func TestVehicleList_FiltersByPlate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVehicleService(db)

	for _, plate := range []string{"ABC1234", "XYZ9876"} {
		if _, err := svc.Create(&CreateVehicleRequest{Plate: plate, Model: "M", Brand: "B", Year: 2020, VehicleType: "truck"}, 1); err != nil {
			t.Fatalf("Create %s: %v", plate, err)
		}
	}

	resp, err := svc.List(1, &VehicleListRequest{Page: 1, PageSize: 20, Plate: "abc"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if resp.Total != 1 || len(resp.Items) != 1 {
		t.Fatalf("Total = %d, Items = %d, want 1 match", resp.Total, len(resp.Items))
	}
	if resp.Items[0].Plate != "ABC1234" {
		t.Errorf("matched plate = %q", resp.Items[0].Plate)
	}
}

func TestVehicleDelete_ThenGone(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVehicleService(db)

	vehicle, err := svc.Create(&CreateVehicleRequest{Plate: "ABC1234", Model: "M", Brand: "B", Year: 2020, VehicleType: "truck"}, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(vehicle.ID, 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(vehicle.ID, 1); !errors.Is(err, ErrVehicleNotFound) {
		t.Errorf("Get after delete = %v, want ErrVehicleNotFound", err)
	}
}
