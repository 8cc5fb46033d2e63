package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/codenames-backend/internal/entity"
)

const (
	scoreKeyPrefix  = "score:"
	roundsKeyPrefix = "rounds:"
)

type ScoreRepository interface {
	AddRound(ctx context.Context, playerID string, round entity.Round) (int, error)
	GetByPlayerID(ctx context.Context, playerID string) (*entity.Score, error)
}

// dbScore keeps a running total per player and the list of submitted rounds.
type dbScore struct {
	client *redis.Client
}

func NewScoreRepository(client *redis.Client) ScoreRepository {
	return &dbScore{
		client: client,
	}
}

// AddRound - adds the round's points to the total and appends the round in one transaction.
// Returns the new total.
func (that *dbScore) AddRound(ctx context.Context, playerID string, round entity.Round) (int, error) {
	roundJSON, err := json.Marshal(round)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal round: %w", err)
	}

	var total *redis.IntCmd

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		total = pipe.IncrBy(ctx, scoreKeyPrefix+playerID, int64(round.Points))
		pipe.RPush(ctx, roundsKeyPrefix+playerID, roundJSON)

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to add round: %w", err)
	}

	return int(total.Val()), nil
}

func (that *dbScore) GetByPlayerID(ctx context.Context, playerID string) (*entity.Score, error) {
	score := &entity.Score{
		PlayerID: playerID,
		Rounds:   []entity.Round{},
	}

	total, err := that.client.Get(ctx, scoreKeyPrefix+playerID).Result()
	switch {
	case errors.Is(err, redis.Nil):
	case err != nil:
		return nil, fmt.Errorf("failed to get score: %w", err)
	default:
		if score.Total, err = strconv.Atoi(total); err != nil {
			return nil, fmt.Errorf("failed to parse score %q: %w", total, err)
		}
	}

	rounds, err := that.client.LRange(ctx, roundsKeyPrefix+playerID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get rounds: %w", err)
	}

	for _, raw := range rounds {
		var round entity.Round
		if err = json.Unmarshal([]byte(raw), &round); err != nil {
			return nil, fmt.Errorf("failed to unmarshal round: %w", err)
		}

		score.Rounds = append(score.Rounds, round)
	}

	return score, nil
}
