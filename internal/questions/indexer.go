package questions

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/sha1n/stackfeed/internal/domain"
)

const (
	// IndexDirname is the index directory name under the data dir
	IndexDirname = "questions.bleve"

	// MaxBatchSize is the maximum number of documents per index batch
	MaxBatchSize = 100
)

// questionDoc is the shape stored in the search index. The code field holds
// the fenced code spans extracted from the body and answers so code
// identifiers rank above prose matches.
type questionDoc struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Code     string `json:"code"`
	Category string `json:"category"`
	Tags     string `json:"tags"`
	Author   string `json:"author"`
}

// Indexer maintains the full-text index over stored questions.
type Indexer struct {
	baseDir string
}

// NewIndexer creates an indexer rooted at the given data directory.
func NewIndexer(baseDir string) *Indexer {
	return &Indexer{baseDir: baseDir}
}

func (i *Indexer) indexPath() string {
	return filepath.Join(i.baseDir, IndexDirname)
}

// CreateIndexMapping creates the Bleve index mapping for question documents.
func CreateIndexMapping() mapping.IndexMapping {
	docMapping := bleve.NewDocumentMapping()

	titleField := bleve.NewTextFieldMapping()
	titleField.Analyzer = standard.Name
	titleField.Store = true
	docMapping.AddFieldMappingsAt(domain.QuestionFieldTitle, titleField)

	bodyField := bleve.NewTextFieldMapping()
	bodyField.Analyzer = standard.Name
	bodyField.Store = true
	bodyField.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt(domain.QuestionFieldBody, bodyField)

	codeField := bleve.NewTextFieldMapping()
	codeField.Analyzer = standard.Name
	codeField.Store = true
	docMapping.AddFieldMappingsAt(domain.QuestionFieldCode, codeField)

	categoryField := bleve.NewTextFieldMapping()
	categoryField.Analyzer = keyword.Name
	categoryField.Store = true
	docMapping.AddFieldMappingsAt(domain.QuestionFieldCategory, categoryField)

	tagsField := bleve.NewTextFieldMapping()
	tagsField.Analyzer = keyword.Name
	tagsField.Store = true
	docMapping.AddFieldMappingsAt(domain.QuestionFieldTags, tagsField)

	authorField := bleve.NewTextFieldMapping()
	authorField.Analyzer = keyword.Name
	authorField.Store = true
	docMapping.AddFieldMappingsAt(domain.QuestionFieldAuthor, authorField)

	idField := bleve.NewTextFieldMapping()
	idField.Index = false
	idField.Store = true
	docMapping.AddFieldMappingsAt(domain.QuestionFieldID, idField)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = standard.Name

	return indexMapping
}

// Open opens the index, creating it if it does not exist.
func (i *Indexer) Open() (bleve.Index, error) {
	index, err := bleve.Open(i.indexPath())
	if err == nil {
		return index, nil
	}

	index, err = bleve.New(i.indexPath(), CreateIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}
	return index, nil
}

// Exists checks whether an index has been created.
func (i *Indexer) Exists() bool {
	_, err := os.Stat(i.indexPath())
	return err == nil
}

// toDoc flattens a question into its indexed form.
func toDoc(q *domain.Question) questionDoc {
	var code []string
	code = append(code, CodeBlocks(q.FullBody)...)
	var bodies strings.Builder
	bodies.WriteString(q.FullBody)
	for _, a := range q.Answers {
		bodies.WriteString("\n")
		bodies.WriteString(a.Body)
		code = append(code, CodeBlocks(a.Body)...)
	}

	return questionDoc{
		ID:       q.ID,
		Title:    q.Title,
		Body:     bodies.String(),
		Code:     strings.Join(code, "\n"),
		Category: q.Category,
		Tags:     strings.Join(q.Tags, " "),
		Author:   q.Author,
	}
}

// IndexQuestions adds or updates the given questions, batched.
// Returns the number of documents indexed.
func (i *Indexer) IndexQuestions(qs []domain.Question) (count int, err error) {
	if len(qs) == 0 {
		return 0, nil
	}

	index, err := i.Open()
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := index.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	batch := index.NewBatch()
	batchSize := 0
	for idx := range qs {
		doc := toDoc(&qs[idx])
		if err := batch.Index(doc.ID, doc); err != nil {
			continue
		}
		batchSize++

		if batchSize >= MaxBatchSize {
			if err := index.Batch(batch); err != nil {
				return count, fmt.Errorf("batch index failed: %w", err)
			}
			count += batchSize
			batch = index.NewBatch()
			batchSize = 0
		}
	}

	if batchSize > 0 {
		if err := index.Batch(batch); err != nil {
			return count, fmt.Errorf("final batch index failed: %w", err)
		}
		count += batchSize
	}

	return count, nil
}

// DeleteQuestions removes the given ids from the index. Missing ids are
// ignored.
func (i *Indexer) DeleteQuestions(ids []string) (err error) {
	if !i.Exists() || len(ids) == 0 {
		return nil
	}

	index, err := i.Open()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := index.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	batch := index.NewBatch()
	for _, id := range ids {
		batch.Delete(id)
	}
	if err := index.Batch(batch); err != nil {
		return fmt.Errorf("batch delete failed: %w", err)
	}
	return nil
}

// Rebuild drops the index and reindexes the full collection.
func (i *Indexer) Rebuild(qs []domain.Question) (int, error) {
	if err := os.RemoveAll(i.indexPath()); err != nil {
		return 0, fmt.Errorf("failed to remove index: %w", err)
	}
	return i.IndexQuestions(qs)
}

// DocCount returns the number of indexed documents.
func (i *Indexer) DocCount() (count uint64, err error) {
	index, err := i.Open()
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := index.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return index.DocCount()
}
