package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"task-manager/tasks-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	subtaskIDPath        = models.FieldSubtasks + ".id"
	subtaskCompletedPath = models.FieldSubtasks + ".$.completed"
)

type TaskRepo struct {
	collection *mongo.Collection
}

func NewTaskRepo(collection *mongo.Collection) *TaskRepo {
	return &TaskRepo{collection: collection}
}

// EnsureIndexes creates the unique id index and the indexes behind listing and counting.
func (r *TaskRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: models.FieldID, Value: 1}},
			Options: options.Index().SetUnique(true).SetName("task_id_unique"),
		},
		{
			Keys:    bson.D{{Key: models.FieldCreatedAt, Value: -1}},
			Options: options.Index().SetName("task_created_at_desc"),
		},
		{
			Keys:    bson.D{{Key: models.FieldStatus, Value: 1}, {Key: models.FieldPriority, Value: 1}},
			Options: options.Index().SetName("task_status_priority"),
		},
	}
	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create task indexes: %w", err)
	}
	return nil
}

func (r *TaskRepo) Insert(ctx context.Context, task *models.Task) error {
	result, err := r.collection.InsertOne(ctx, task)
	if err != nil {
		return fmt.Errorf("%w: failed to create task: %w", models.ErrPersistence, err)
	}
	if result.InsertedID == nil {
		return fmt.Errorf("insert of task %s was not acknowledged: %w", task.ID, models.ErrPersistence)
	}
	return nil
}

// Find returns at most limit tasks matching filter, newest first.
func (r *TaskRepo) Find(ctx context.Context, filter models.TaskFilter, limit int64) ([]models.Task, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: models.FieldCreatedAt, Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, taskQuery(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := make([]models.Task, 0)
	for cursor.Next(ctx) {
		var task models.Task
		if err := cursor.Decode(&task); err != nil {
			return nil, fmt.Errorf("failed to decode task: %w", err)
		}
		tasks = append(tasks, normalize(task))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepo) FindByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	err := r.collection.FindOne(ctx, bson.M{models.FieldID: id}).Decode(&task)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve task %s: %w", id, err)
	}
	task = normalize(task)
	return &task, nil
}

// UpdateFields writes the named fields of task with $set and returns the matched count.
func (r *TaskRepo) UpdateFields(ctx context.Context, task *models.Task, fields []string) (int64, error) {
	set := bson.M{}
	for _, field := range fields {
		set[field] = task.Value(field)
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{models.FieldID: task.ID}, bson.M{"$set": set})
	if err != nil {
		return 0, fmt.Errorf("%w: failed to update task %s: %w", models.ErrPersistence, task.ID, err)
	}
	return result.MatchedCount, nil
}

// SetSubtaskCompleted flips one embedded subtask. Zero matched means the task or the subtask is missing.
func (r *TaskRepo) SetSubtaskCompleted(ctx context.Context, taskID, subtaskID string, completed bool, updatedAt time.Time) (int64, error) {
	filter := bson.M{models.FieldID: taskID, subtaskIDPath: subtaskID}
	update := bson.M{"$set": bson.M{subtaskCompletedPath: completed, models.FieldUpdatedAt: updatedAt}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to update subtask %s of task %s: %w", models.ErrPersistence, subtaskID, taskID, err)
	}
	return result.MatchedCount, nil
}

func (r *TaskRepo) Delete(ctx context.Context, id string) (int64, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{models.FieldID: id})
	if err != nil {
		return 0, fmt.Errorf("%w: failed to delete task %s: %w", models.ErrPersistence, id, err)
	}
	return result.DeletedCount, nil
}

func (r *TaskRepo) Count(ctx context.Context, filter models.TaskFilter) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, taskQuery(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return n, nil
}

func taskQuery(f models.TaskFilter) bson.M {
	query := bson.M{}
	switch {
	case f.Status != "" && f.StatusNot != "":
		query[models.FieldStatus] = bson.M{"$eq": f.Status, "$ne": f.StatusNot}
	case f.Status != "":
		query[models.FieldStatus] = f.Status
	case f.StatusNot != "":
		query[models.FieldStatus] = bson.M{"$ne": f.StatusNot}
	}
	if f.Priority != "" {
		query[models.FieldPriority] = f.Priority
	}
	if f.Category != "" {
		query[models.FieldCategory] = f.Category
	}
	if f.DueBefore != nil {
		query[models.FieldDueDate] = bson.M{"$lt": *f.DueBefore}
	}
	return query
}

// normalize replaces a stored null subtask list with an empty one.
func normalize(task models.Task) models.Task {
	if task.Subtasks == nil {
		task.Subtasks = []models.Subtask{}
	}
	return task
}
