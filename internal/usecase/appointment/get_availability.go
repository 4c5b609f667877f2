package appointment

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
)

const DefaultSessionMinutes = 240

type GetAvailability struct {
	shifts      domain.ShiftProvider
	machines    domain.MachineProvider
	checker     *ConflictChecker
	defaultStep int
}

func NewGetAvailability(
	repo domain.Repository,
	shifts domain.ShiftProvider,
	machines domain.MachineProvider,
	defaultStep int,
) *GetAvailability {
	if defaultStep <= 0 {
		defaultStep = DefaultSessionMinutes
	}
	return &GetAvailability{
		shifts:      shifts,
		machines:    machines,
		checker:     NewConflictChecker(repo),
		defaultStep: defaultStep,
	}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	shift, err := uc.shifts.GetShift(ctx, in.ClinicID, in.ShiftID)
	if err != nil {
		return nil, err
	}

	// turno inativo ou fora do dia da semana: nada a oferecer
	if !shift.Active || !shift.AppliesTo(in.Date) {
		return []domain.TimeSlot{}, nil
	}

	step := in.StepMinutes
	if step <= 0 {
		step = uc.defaultStep
	}

	slots := domain.GenerateSlots(shift.Window, step)
	if len(slots) == 0 {
		return slots, nil
	}

	var machineIDs []uuid.UUID
	if in.MachineID != nil {
		machineIDs = []uuid.UUID{*in.MachineID}
	} else {
		machineIDs, err = uc.machines.ListActiveMachines(ctx, in.ClinicID)
		if err != nil {
			return nil, domain.AsStorageError("list machines", err)
		}
	}

	// ocupação lida uma vez por máquina para a janela inteira
	occupancy := make([][]domain.Interval, 0, len(machineIDs))
	for _, id := range machineIDs {
		busy, err := uc.checker.Occupied(ctx, in.ClinicID, id, in.Date, shift.Window)
		if err != nil {
			return nil, err
		}
		occupancy = append(occupancy, busy)
	}

	for i := range slots {
		slots[i].Available = anyMachineFree(slots[i].Interval(), occupancy)
	}
	return slots, nil
}

func anyMachineFree(slot domain.Interval, occupancy [][]domain.Interval) bool {
	for _, busy := range occupancy {
		free := true
		for _, iv := range busy {
			if iv.Overlaps(slot) {
				free = false
				break
			}
		}
		if free {
			return true
		}
	}
	return false
}
