package recipe

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/testutil"
	"foodgram/internal/utils/mailing"
	"foodgram/pkg/follow"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const onePixelPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	failing bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (f *fakeStorage) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	if f.failing {
		return "", errors.New("storage down")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return "https://images.test/" + key, nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeStorage) KeyFromURL(url string) string {
	return strings.TrimPrefix(url, "https://images.test/")
}

func (f *fakeStorage) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

type sentMail struct {
	to          string
	attachments []mailing.Attachment
}

type fakeMailer struct {
	sent []sentMail
}

func (f *fakeMailer) SendMail(to, _, _ string, attachments ...mailing.Attachment) error {
	f.sent = append(f.sent, sentMail{to: to, attachments: attachments})
	return nil
}

type fixture struct {
	db      *gorm.DB
	svc     RecipeService
	storage *fakeStorage
	mailer  *fakeMailer
	author  *entities.User
	reader  *entities.User
	lunch   *entities.Tag
	dinner  *entities.Tag
	flour   *entities.Ingredient
	sugar   *entities.Ingredient
	milk    *entities.Ingredient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	f := &fixture{
		db:      db,
		storage: newFakeStorage(),
		mailer:  &fakeMailer{},
		author:  testutil.CreateUser(t, db, "author"),
		reader:  testutil.CreateUser(t, db, "reader"),
		lunch:   testutil.CreateTag(t, db, "Lunch", "#49B64E", "lunch"),
		dinner:  testutil.CreateTag(t, db, "Dinner", "#8775D2", "dinner"),
		flour:   testutil.CreateIngredient(t, db, "Flour", "g"),
		sugar:   testutil.CreateIngredient(t, db, "Sugar", "g"),
		milk:    testutil.CreateIngredient(t, db, "Milk", "ml"),
	}
	f.svc = NewRecipeService(NewRecipeRepository(db), follow.NewFollowRepository(db), f.storage, f.mailer)
	return f
}

func (f *fixture) createRequest(name string, tags []*entities.Tag, lines ...domain.RecipeIngredientRequest) domain.RecipeCreateRequest {
	tagIDs := make([]string, 0, len(tags))
	for _, t := range tags {
		tagIDs = append(tagIDs, t.ID.String())
	}
	return domain.RecipeCreateRequest{
		Name:        name,
		Text:        "Mix and bake.",
		CookingTime: 30,
		Image:       "data:image/png;base64," + onePixelPNG,
		Tags:        tagIDs,
		Ingredients: lines,
	}
}

func line(ingredient *entities.Ingredient, amount int) domain.RecipeIngredientRequest {
	return domain.RecipeIngredientRequest{ID: ingredient.ID.String(), Amount: amount}
}

func (f *fixture) create(t *testing.T, name string, tags []*entities.Tag, lines ...domain.RecipeIngredientRequest) domain.RecipeResponse {
	t.Helper()
	res, err := f.svc.CreateRecipe(context.Background(), f.createRequest(name, tags, lines...), f.author.ID.String())
	require.NoError(t, err)
	return res
}

func (f *fixture) countRows(t *testing.T, model any) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(model).Count(&count).Error)
	return count
}

func amounts(res domain.RecipeResponse) map[string]int {
	out := make(map[string]int, len(res.Ingredients))
	for _, ing := range res.Ingredients {
		out[ing.Name] = ing.Amount
	}
	return out
}

func TestCreateRecipeStoresExactLines(t *testing.T) {
	f := newFixture(t)

	res := f.create(t, "Pancakes", []*entities.Tag{f.lunch, f.dinner}, line(f.flour, 200), line(f.milk, 300))

	assert.Equal(t, map[string]int{"Flour": 200, "Milk": 300}, amounts(res))
	assert.Len(t, res.Tags, 2)
	assert.Equal(t, "author", res.Author.Username)
	assert.False(t, res.IsFavorited)
	assert.False(t, res.IsInShoppingCart)
	assert.True(t, strings.HasPrefix(res.Image, "https://images.test/recipes/"))
	assert.True(t, strings.HasSuffix(res.Image, ".png"))
	assert.Equal(t, 1, f.storage.count())
	assert.EqualValues(t, 2, f.countRows(t, &entities.RecipeIngredient{}))
}

func TestCreateRecipeRejectsInvalidInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tags := []*entities.Tag{f.lunch}

	cases := []struct {
		name string
		req  domain.RecipeCreateRequest
		err  error
	}{
		{"zero amount", f.createRequest("A", tags, line(f.flour, 0)), domain.ErrInvalidAmount},
		{"no ingredients", f.createRequest("B", tags), domain.ErrNoIngredients},
		{"no tags", f.createRequest("C", nil, line(f.flour, 1)), domain.ErrNoTags},
		{"duplicate ingredient", f.createRequest("D", tags, line(f.flour, 1), line(f.flour, 2)), domain.ErrDuplicateIngredient},
		{"unknown ingredient", f.createRequest("E", tags, domain.RecipeIngredientRequest{ID: "6b1f3c0e-8d5a-4b8e-9a51-2f0c7d1e4a99", Amount: 1}), domain.ErrIngredientNotFound},
		{"unknown tag", domain.RecipeCreateRequest{Name: "F", Text: "t", CookingTime: 1, Image: onePixelPNG, Tags: []string{"6b1f3c0e-8d5a-4b8e-9a51-2f0c7d1e4a99"}, Ingredients: []domain.RecipeIngredientRequest{line(f.flour, 1)}}, domain.ErrTagNotFound},
		{"bad image", domain.RecipeCreateRequest{Name: "G", Text: "t", CookingTime: 1, Image: "bm90IGFuIGltYWdl", Tags: []string{f.lunch.ID.String()}, Ingredients: []domain.RecipeIngredientRequest{line(f.flour, 1)}}, domain.ErrInvalidImage},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateRecipe(ctx, tc.req, f.author.ID.String())
			assert.ErrorIs(t, err, tc.err)
		})
	}

	zeroTime := f.createRequest("H", tags, line(f.flour, 1))
	zeroTime.CookingTime = 0
	_, err := f.svc.CreateRecipe(ctx, zeroTime, f.author.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidCookingTime)

	assert.Zero(t, f.countRows(t, &entities.Recipe{}))
	assert.Zero(t, f.countRows(t, &entities.RecipeIngredient{}))
	assert.Zero(t, f.storage.count(), "uploaded images are removed when the write fails")
}

func TestCreateRecipeNameIsUnique(t *testing.T) {
	f := newFixture(t)
	f.create(t, "Pancakes", []*entities.Tag{f.lunch}, line(f.flour, 1))

	_, err := f.svc.CreateRecipe(context.Background(), f.createRequest("Pancakes", []*entities.Tag{f.lunch}, line(f.sugar, 1)), f.reader.ID.String())
	assert.ErrorIs(t, err, domain.ErrRecipeNameAlreadyExists)
	assert.EqualValues(t, 1, f.countRows(t, &entities.Recipe{}))
}

func TestUpdateRecipeReplacesLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.create(t, "Pancakes", []*entities.Tag{f.lunch}, line(f.flour, 200), line(f.milk, 300))
	oldImage := f.storage.KeyFromURL(created.Image)

	newName := "Sweet pancakes"
	image := onePixelPNG
	updated, err := f.svc.UpdateRecipe(ctx, created.ID, domain.RecipeUpdateRequest{
		Name:        &newName,
		Image:       &image,
		Tags:        []string{f.dinner.ID.String()},
		Ingredients: []domain.RecipeIngredientRequest{line(f.flour, 150), line(f.sugar, 50)},
	}, f.author.ID.String())
	require.NoError(t, err)

	assert.Equal(t, "Sweet pancakes", updated.Name)
	assert.Equal(t, "Mix and bake.", updated.Text)
	assert.Equal(t, 30, updated.CookingTime)
	assert.Equal(t, map[string]int{"Flour": 150, "Sugar": 50}, amounts(updated))
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "dinner", updated.Tags[0].Slug)
	assert.EqualValues(t, 2, f.countRows(t, &entities.RecipeIngredient{}))

	assert.NotEqual(t, created.Image, updated.Image)
	assert.Equal(t, 1, f.storage.count())
	_, stillThere := f.storage.objects[oldImage]
	assert.False(t, stillThere)
}

func TestUpdateRecipeFailureKeepsOldState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.create(t, "Pancakes", []*entities.Tag{f.lunch}, line(f.flour, 200))
	f.create(t, "Waffles", []*entities.Tag{f.lunch}, line(f.milk, 100))

	taken := "Waffles"
	_, err := f.svc.UpdateRecipe(ctx, created.ID, domain.RecipeUpdateRequest{
		Name:        &taken,
		Tags:        []string{f.dinner.ID.String()},
		Ingredients: []domain.RecipeIngredientRequest{line(f.sugar, 10)},
	}, f.author.ID.String())
	assert.ErrorIs(t, err, domain.ErrRecipeNameAlreadyExists)

	_, err = f.svc.UpdateRecipe(ctx, created.ID, domain.RecipeUpdateRequest{
		Tags:        []string{f.dinner.ID.String()},
		Ingredients: []domain.RecipeIngredientRequest{line(f.sugar, 10), {ID: "6b1f3c0e-8d5a-4b8e-9a51-2f0c7d1e4a99", Amount: 1}},
	}, f.author.ID.String())
	assert.ErrorIs(t, err, domain.ErrIngredientNotFound)

	got, err := f.svc.GetRecipe(ctx, created.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", got.Name)
	assert.Equal(t, map[string]int{"Flour": 200}, amounts(got))
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "lunch", got.Tags[0].Slug)
}

func TestOnlyAuthorChangesRecipe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.create(t, "Pancakes", []*entities.Tag{f.lunch}, line(f.flour, 200))

	_, err := f.svc.UpdateRecipe(ctx, created.ID, domain.RecipeUpdateRequest{
		Tags:        []string{f.lunch.ID.String()},
		Ingredients: []domain.RecipeIngredientRequest{line(f.flour, 1)},
	}, f.reader.ID.String())
	assert.ErrorIs(t, err, domain.ErrUnauthorizedRecipeAccess)

	assert.ErrorIs(t, f.svc.DeleteRecipe(ctx, created.ID, f.reader.ID.String()), domain.ErrUnauthorizedRecipeAccess)
	assert.ErrorIs(t, f.svc.DeleteRecipe(ctx, "6b1f3c0e-8d5a-4b8e-9a51-2f0c7d1e4a99", f.author.ID.String()), domain.ErrRecipeNotFound)
}

func TestDeleteRecipeRemovesDependents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.create(t, "Pancakes", []*entities.Tag{f.lunch}, line(f.flour, 200))

	_, err := f.svc.SetMembership(ctx, domain.MarkFavorite, f.reader.ID.String(), created.ID, true)
	require.NoError(t, err)
	_, err = f.svc.SetMembership(ctx, domain.MarkShoppingCart, f.reader.ID.String(), created.ID, true)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteRecipe(ctx, created.ID, f.author.ID.String()))

	assert.Zero(t, f.countRows(t, &entities.Recipe{}))
	assert.Zero(t, f.countRows(t, &entities.RecipeIngredient{}))
	assert.Zero(t, f.countRows(t, &entities.FavoriteRecipe{}))
	assert.Zero(t, f.countRows(t, &entities.ShoppingCart{}))
	assert.Zero(t, f.storage.count())

	_, err = f.svc.GetRecipe(ctx, created.ID, "")
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestMembershipTransitions(t *testing.T) {
	for _, kind := range []domain.MarkKind{domain.MarkFavorite, domain.MarkShoppingCart} {
		t.Run(string(kind), func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			created := f.create(t, "Pancakes", []*entities.Tag{f.lunch}, line(f.flour, 200))
			userID := f.reader.ID.String()

			short, err := f.svc.SetMembership(ctx, kind, userID, created.ID, true)
			require.NoError(t, err)
			assert.Equal(t, created.ID, short.ID)
			assert.Equal(t, "Pancakes", short.Name)

			_, err = f.svc.SetMembership(ctx, kind, userID, created.ID, true)
			assert.ErrorIs(t, err, domain.KindConflict)

			got, err := f.svc.GetRecipe(ctx, created.ID, userID)
			require.NoError(t, err)
			assert.Equal(t, kind == domain.MarkFavorite, got.IsFavorited)
			assert.Equal(t, kind == domain.MarkShoppingCart, got.IsInShoppingCart)

			_, err = f.svc.SetMembership(ctx, kind, userID, created.ID, false)
			require.NoError(t, err)

			_, err = f.svc.SetMembership(ctx, kind, userID, created.ID, false)
			assert.ErrorIs(t, err, domain.KindNotFound)

			_, err = f.svc.SetMembership(ctx, kind, userID, created.ID, true)
			require.NoError(t, err)

			_, err = f.svc.SetMembership(ctx, kind, userID, "6b1f3c0e-8d5a-4b8e-9a51-2f0c7d1e4a99", true)
			assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
		})
	}
}

func TestMembershipErrorsPerKind(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.create(t, "Pancakes", []*entities.Tag{f.lunch}, line(f.flour, 200))
	userID := f.reader.ID.String()

	_, err := f.svc.SetMembership(ctx, domain.MarkFavorite, userID, created.ID, false)
	assert.ErrorIs(t, err, domain.ErrNotFavorited)
	_, err = f.svc.SetMembership(ctx, domain.MarkShoppingCart, userID, created.ID, false)
	assert.ErrorIs(t, err, domain.ErrNotInShoppingCart)

	_, err = f.svc.SetMembership(ctx, domain.MarkFavorite, userID, created.ID, true)
	require.NoError(t, err)
	_, err = f.svc.SetMembership(ctx, domain.MarkFavorite, userID, created.ID, true)
	assert.ErrorIs(t, err, domain.ErrAlreadyFavorited)

	_, err = f.svc.SetMembership(ctx, domain.MarkShoppingCart, userID, created.ID, true)
	require.NoError(t, err)
	_, err = f.svc.SetMembership(ctx, domain.MarkShoppingCart, userID, created.ID, true)
	assert.ErrorIs(t, err, domain.ErrAlreadyInShoppingCart)
}

func TestShoppingListSumsAmounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bread := f.create(t, "Bread", []*entities.Tag{f.lunch}, line(f.flour, 200), line(f.milk, 100))
	cake := f.create(t, "Cake", []*entities.Tag{f.dinner}, line(f.flour, 100), line(f.sugar, 50))
	f.create(t, "Pudding", []*entities.Tag{f.dinner}, line(f.milk, 500))
	userID := f.reader.ID.String()

	_, err := f.svc.GetShoppingList(ctx, userID)
	assert.ErrorIs(t, err, domain.ErrShoppingCartEmpty)
	assert.ErrorIs(t, err, domain.KindPrecondition)

	for _, id := range []string{bread.ID, cake.ID} {
		_, err := f.svc.SetMembership(ctx, domain.MarkShoppingCart, userID, id, true)
		require.NoError(t, err)
	}

	items, err := f.svc.GetShoppingList(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []domain.ShoppingListItem{
		{Name: "Flour", MeasurementUnit: "g", TotalAmount: 300},
		{Name: "Milk", MeasurementUnit: "ml", TotalAmount: 100},
		{Name: "Sugar", MeasurementUnit: "g", TotalAmount: 50},
	}, items)

	text, err := f.svc.BuildShoppingList(ctx, userID)
	require.NoError(t, err)
	assert.Contains(t, string(text), "Flour - 300 g.\n")
	assert.Contains(t, string(text), "Sugar - 50 g.\n")

	_, err = f.svc.GetShoppingList(ctx, f.author.ID.String())
	assert.ErrorIs(t, err, domain.ErrShoppingCartEmpty)
}

func TestSendShoppingList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bread := f.create(t, "Bread", []*entities.Tag{f.lunch}, line(f.flour, 200))
	userID := f.reader.ID.String()

	assert.ErrorIs(t, f.svc.SendShoppingList(ctx, userID), domain.ErrShoppingCartEmpty)
	assert.Empty(t, f.mailer.sent)

	_, err := f.svc.SetMembership(ctx, domain.MarkShoppingCart, userID, bread.ID, true)
	require.NoError(t, err)
	require.NoError(t, f.svc.SendShoppingList(ctx, userID))

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "reader@example.com", f.mailer.sent[0].to)
	require.Len(t, f.mailer.sent[0].attachments, 1)
	assert.Equal(t, domain.ShoppingListFilename, f.mailer.sent[0].attachments[0].Filename)
	assert.Contains(t, string(f.mailer.sent[0].attachments[0].Content), "Flour - 200 g.")
}

func TestRenderShoppingList(t *testing.T) {
	text := RenderShoppingList([]domain.ShoppingListItem{
		{Name: "Flour", MeasurementUnit: "g", TotalAmount: 300},
		{Name: "Eggs", MeasurementUnit: "pcs", TotalAmount: 2},
	})
	assert.Equal(t, "Shopping list:\nFlour - 300 g.\nEggs - 2 pcs.\n", string(text))
}

func TestGetRecipesFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	soup := f.create(t, "Soup", []*entities.Tag{f.lunch}, line(f.milk, 100))
	stew := f.create(t, "Stew", []*entities.Tag{f.dinner}, line(f.flour, 10))
	both := f.create(t, "Casserole", []*entities.Tag{f.lunch, f.dinner}, line(f.sugar, 10))
	readerID := f.reader.ID.String()

	_, err := f.svc.SetMembership(ctx, domain.MarkFavorite, readerID, stew.ID, true)
	require.NoError(t, err)
	_, err = f.svc.SetMembership(ctx, domain.MarkShoppingCart, readerID, soup.ID, true)
	require.NoError(t, err)

	names := func(filter domain.RecipeFilter, viewer string) []string {
		t.Helper()
		res, _, err := f.svc.GetRecipes(ctx, filter, viewer)
		require.NoError(t, err)
		out := make([]string, 0, len(res))
		for _, r := range res {
			out = append(out, r.Name)
		}
		return out
	}
	one, zero, two := 1, 0, 2

	all, count, err := f.svc.GetRecipes(ctx, domain.RecipeFilter{}, "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
	assert.Len(t, all, 3)

	assert.ElementsMatch(t, []string{"Soup", "Casserole"}, names(domain.RecipeFilter{Tags: []string{"lunch"}}, ""))
	assert.ElementsMatch(t, []string{"Soup", "Stew", "Casserole"}, names(domain.RecipeFilter{Tags: []string{"lunch", "dinner"}}, ""))

	assert.Equal(t, []string{"Stew"}, names(domain.RecipeFilter{IsFavorited: &one}, readerID))
	assert.ElementsMatch(t, []string{"Soup", "Casserole"}, names(domain.RecipeFilter{IsFavorited: &zero}, readerID))
	assert.Empty(t, names(domain.RecipeFilter{IsFavorited: &two}, readerID))
	assert.Equal(t, []string{"Soup"}, names(domain.RecipeFilter{IsInShoppingCart: &one}, readerID))
	assert.Empty(t, names(domain.RecipeFilter{IsFavorited: &one, IsInShoppingCart: &one}, readerID))

	assert.Empty(t, names(domain.RecipeFilter{IsFavorited: &one}, ""))
	assert.Len(t, names(domain.RecipeFilter{IsFavorited: &zero}, ""), 3)

	assert.Len(t, names(domain.RecipeFilter{AuthorID: f.author.ID.String()}, ""), 3)
	assert.Empty(t, names(domain.RecipeFilter{AuthorID: f.reader.ID.String()}, ""))

	page, count, err := f.svc.GetRecipes(ctx, domain.RecipeFilter{Page: 2, Limit: 2}, readerID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
	assert.Len(t, page, 1)

	got, err := f.svc.GetRecipe(ctx, both.ID, readerID)
	require.NoError(t, err)
	assert.False(t, got.IsFavorited)
	assert.False(t, got.Author.IsSubscribed)
}

func TestRecipeAuthorSubscriptionFlag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.create(t, "Soup", []*entities.Tag{f.lunch}, line(f.milk, 100))

	require.NoError(t, follow.NewFollowRepository(f.db).CreateFollow(ctx, f.reader.ID, f.author.ID))

	got, err := f.svc.GetRecipe(ctx, created.ID, f.reader.ID.String())
	require.NoError(t, err)
	assert.True(t, got.Author.IsSubscribed)

	anonymous, err := f.svc.GetRecipe(ctx, created.ID, "")
	require.NoError(t, err)
	assert.False(t, anonymous.Author.IsSubscribed)
}

func TestRecipePreviewSource(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, "Soup", []*entities.Tag{f.lunch}, line(f.milk, 100))
	f.create(t, "Stew", []*entities.Tag{f.lunch}, line(f.milk, 100))

	var source follow.RecipePreviewSource = NewRecipeRepository(f.db)
	recipes, err := source.GetRecipesByAuthor(ctx, f.author.ID.String(), 1)
	require.NoError(t, err)
	assert.Len(t, recipes, 1)

	count, err := source.CountRecipesByAuthor(ctx, f.author.ID.String())
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestCreateRecipeStorageFailure(t *testing.T) {
	f := newFixture(t)
	f.storage.failing = true

	_, err := f.svc.CreateRecipe(context.Background(), f.createRequest("Soup", []*entities.Tag{f.lunch}, line(f.milk, 1)), f.author.ID.String())
	assert.Error(t, err)
	assert.Zero(t, f.countRows(t, &entities.Recipe{}))
}

func TestConcurrentAddKeepsOneMark(t *testing.T) {
	for _, kind := range []domain.MarkKind{domain.MarkFavorite, domain.MarkShoppingCart} {
		t.Run(string(kind), func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			created := f.create(t, "Waffles", []*entities.Tag{f.lunch}, line(f.flour, 250))
			userID := f.reader.ID.String()

			const workers = 8
			errs := make([]error, workers)
			var wg sync.WaitGroup
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, errs[i] = f.svc.SetMembership(ctx, kind, userID, created.ID, true)
				}(i)
			}
			wg.Wait()

			succeeded := 0
			for _, err := range errs {
				if err == nil {
					succeeded++
					continue
				}
				assert.ErrorIs(t, err, markErrors[kind].present)
			}
			assert.Equal(t, 1, succeeded)

			var rows int64
			require.NoError(t, f.db.Model(markModel(kind, uuid.Nil, uuid.Nil)).
				Where("user_id = ? AND recipe_id = ?", f.reader.ID, created.ID).
				Count(&rows).Error)
			assert.EqualValues(t, 1, rows)
		})
	}
}

func TestMarkIndexesRejectDuplicates(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, "Crepes", []*entities.Tag{f.lunch}, line(f.milk, 300))
	recipeID := uuid.MustParse(created.ID)

	for _, kind := range []domain.MarkKind{domain.MarkFavorite, domain.MarkShoppingCart} {
		require.NoError(t, f.db.Create(markModel(kind, f.reader.ID, recipeID)).Error)

		err := f.db.Create(markModel(kind, f.reader.ID, recipeID)).Error
		assert.ErrorIs(t, err, gorm.ErrDuplicatedKey, string(kind))
	}
}
