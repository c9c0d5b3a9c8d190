package order

import (
	"context"
	"os"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/wholesale/internal/domain/order"
	"github.com/xiebiao/wholesale/internal/domain/product"
	"github.com/xiebiao/wholesale/internal/domain/user"
	apperrors "github.com/xiebiao/wholesale/pkg/errors"
	"github.com/xiebiao/wholesale/pkg/metrics"
)

func TestMain(m *testing.M) {
	// 用例中会更新指标，先注册
	metrics.InitMetrics()
	os.Exit(m.Run())
}

// =========================================
// 内存版仓储与事务管理器
// =========================================
// 教学说明：
// 用例层只依赖Repository和TxManager接口，单测用内存实现替换MySQL。
// fakeTxManager在进入事务前对整个存储做快照，回调失败时恢复快照，
// 模拟数据库事务的回滚语义，从而可以验证"要么全成功要么全失败"。

type fakeStore struct {
	products    map[uint]*product.Product
	orders      map[uint]*order.Order
	lines       map[uint]map[uint]*order.OrderLine // orderID → productID → line
	nextOrderID uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:    make(map[uint]*product.Product),
		orders:      make(map[uint]*order.Order),
		lines:       make(map[uint]map[uint]*order.OrderLine),
		nextOrderID: 1,
	}
}

func (s *fakeStore) addProduct(id uint, price int64, stock int) {
	s.products[id] = &product.Product{ID: id, Name: "商品", Price: price, Stock: stock}
}

// snapshot 深拷贝当前状态
func (s *fakeStore) snapshot() *fakeStore {
	snap := newFakeStore()
	snap.nextOrderID = s.nextOrderID
	for id, p := range s.products {
		cp := *p
		snap.products[id] = &cp
	}
	for id, o := range s.orders {
		cp := *o
		snap.orders[id] = &cp
	}
	for orderID, byProduct := range s.lines {
		snap.lines[orderID] = make(map[uint]*order.OrderLine, len(byProduct))
		for productID, line := range byProduct {
			cp := *line
			snap.lines[orderID][productID] = &cp
		}
	}
	return snap
}

func (s *fakeStore) restore(snap *fakeStore) {
	s.products = snap.products
	s.orders = snap.orders
	s.lines = snap.lines
	s.nextOrderID = snap.nextOrderID
}

// fakeTxManager 快照-回滚事务管理器
type fakeTxManager struct {
	store *fakeStore
}

func (m *fakeTxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := m.store.snapshot()
	if err := fn(ctx); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

// fakeOrderRepo 内存版订单仓储
type fakeOrderRepo struct {
	store *fakeStore
}

func (r *fakeOrderRepo) Create(ctx context.Context, o *order.Order) error {
	o.ID = r.store.nextOrderID
	r.store.nextOrderID++
	cp := *o
	r.store.orders[o.ID] = &cp
	r.store.lines[o.ID] = make(map[uint]*order.OrderLine)
	return nil
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	head, ok := r.store.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	result := *head
	result.Lines = nil
	for _, line := range r.store.lines[id] {
		result.Lines = append(result.Lines, *line)
	}
	sort.Slice(result.Lines, func(i, j int) bool {
		return result.Lines[i].ProductID < result.Lines[j].ProductID
	})
	return &result, nil
}

func (r *fakeOrderRepo) LockByID(ctx context.Context, id uint) (*order.Order, error) {
	head, ok := r.store.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	cp := *head
	return &cp, nil
}

func (r *fakeOrderRepo) LockLine(ctx context.Context, orderID, productID uint) (*order.OrderLine, error) {
	line, ok := r.store.lines[orderID][productID]
	if !ok {
		return nil, order.ErrLineNotFound
	}
	cp := *line
	return &cp, nil
}

func (r *fakeOrderRepo) UpsertLine(ctx context.Context, line *order.OrderLine) error {
	byProduct, ok := r.store.lines[line.OrderID]
	if !ok {
		byProduct = make(map[uint]*order.OrderLine)
		r.store.lines[line.OrderID] = byProduct
	}
	if existing, ok := byProduct[line.ProductID]; ok {
		// 数量累加，UnitPrice保持首次快照
		existing.Quantity += line.Quantity
		return nil
	}
	cp := *line
	byProduct[line.ProductID] = &cp
	return nil
}

func (r *fakeOrderRepo) DeleteLine(ctx context.Context, orderID, productID uint) error {
	if _, ok := r.store.lines[orderID][productID]; !ok {
		return order.ErrLineNotFound
	}
	delete(r.store.lines[orderID], productID)
	return nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, id uint, status order.Status) error {
	head, ok := r.store.orders[id]
	if !ok {
		return order.ErrOrderNotFound
	}
	head.Status = status
	return nil
}

func (r *fakeOrderRepo) ListByUserID(ctx context.Context, userID uint) ([]*order.Order, error) {
	var result []*order.Order
	for id, head := range r.store.orders {
		if head.UserID == userID {
			o, _ := r.FindByID(ctx, id)
			result = append(result, o)
		}
	}
	return result, nil
}

// fakeProductRepo 内存版商品仓储
type fakeProductRepo struct {
	store *fakeStore
}

func (r *fakeProductRepo) Create(ctx context.Context, p *product.Product) error {
	p.ID = uint(len(r.store.products) + 1)
	r.store.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) FindByID(ctx context.Context, id uint) (*product.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return nil, product.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) List(ctx context.Context) ([]*product.Product, error) {
	var result []*product.Product
	for _, p := range r.store.products {
		cp := *p
		result = append(result, &cp)
	}
	return result, nil
}

func (r *fakeProductRepo) ListLowStock(ctx context.Context, threshold int) ([]*product.Product, error) {
	var result []*product.Product
	for _, p := range r.store.products {
		if p.Stock <= threshold {
			cp := *p
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Stock < result[j].Stock })
	return result, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, p *product.Product) error {
	if _, ok := r.store.products[p.ID]; !ok {
		return product.ErrProductNotFound
	}
	cp := *p
	r.store.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := r.store.products[id]; !ok {
		return product.ErrProductNotFound
	}
	delete(r.store.products, id)
	return nil
}

func (r *fakeProductRepo) CountActiveReferences(ctx context.Context, id uint) (int64, error) {
	var count int64
	for orderID, byProduct := range r.store.lines {
		if _, ok := byProduct[id]; !ok {
			continue
		}
		if head, ok := r.store.orders[orderID]; ok && head.Status.IsActive() {
			count++
		}
	}
	return count, nil
}

func (r *fakeProductRepo) LockByID(ctx context.Context, id uint) (*product.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeProductRepo) UpdateStock(ctx context.Context, id uint, delta int) error {
	p, ok := r.store.products[id]
	if !ok {
		return product.ErrProductNotFound
	}
	if p.Stock+delta < 0 {
		return product.ErrInsufficientStock
	}
	p.Stock += delta
	return nil
}

// capturePublisher 记录发布的事件
type capturePublisher struct {
	routingKeys []string
	events      []interface{}
}

func (p *capturePublisher) Publish(routingKey string, event interface{}) error {
	p.routingKeys = append(p.routingKeys, routingKey)
	p.events = append(p.events, event)
	return nil
}

// testEnv 一套完整的用例测试环境
type testEnv struct {
	store     *fakeStore
	orderRepo *fakeOrderRepo
	prodRepo  *fakeProductRepo
	txManager *fakeTxManager
	publisher *capturePublisher

	create       *CreateOrderUseCase
	addItem      *AddItemUseCase
	removeItem   *RemoveItemUseCase
	changeStatus *ChangeStatusUseCase
	getOrder     *GetOrderUseCase
}

func newTestEnv() *testEnv {
	store := newFakeStore()
	orderRepo := &fakeOrderRepo{store: store}
	prodRepo := &fakeProductRepo{store: store}
	txManager := &fakeTxManager{store: store}
	publisher := &capturePublisher{}

	return &testEnv{
		store:        store,
		orderRepo:    orderRepo,
		prodRepo:     prodRepo,
		txManager:    txManager,
		publisher:    publisher,
		create:       NewCreateOrderUseCase(orderRepo, prodRepo, txManager, publisher),
		addItem:      NewAddItemUseCase(orderRepo, prodRepo, txManager, publisher),
		removeItem:   NewRemoveItemUseCase(orderRepo, prodRepo, txManager, publisher),
		changeStatus: NewChangeStatusUseCase(orderRepo, txManager, publisher),
		getOrder:     NewGetOrderUseCase(orderRepo),
	}
}

// =========================================
// 创建订单
// =========================================

// TestCreateOrder_Success 测试成功下单：价格快照、库存扣减、总价计算
func TestCreateOrder_Success(t *testing.T) {
	env := newTestEnv()
	env.store.addProduct(1, 5900, 100)
	env.store.addProduct(2, 12000, 50)

	resp, err := env.create.Execute(context.Background(), CreateOrderRequest{
		UserID: 10,
		Items: []CreateOrderItem{
			{ProductID: 1, Quantity: 3},
			{ProductID: 2, Quantity: 2},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3*5900+2*12000), resp.Total)
	assert.Equal(t, string(order.StatusNew), resp.Status)

	// 库存已扣减
	assert.Equal(t, 97, env.store.products[1].Stock)
	assert.Equal(t, 48, env.store.products[2].Stock)

	// 订单行记录了下单时的价格快照
	view, err := env.getOrder.Execute(context.Background(), resp.OrderID, 10, user.RoleCustomer)
	require.NoError(t, err)
	require.Len(t, view.Lines, 2)
	assert.Equal(t, int64(5900), view.Lines[0].UnitPrice)
	assert.Equal(t, int64(12000), view.Lines[1].UnitPrice)

	// 事件发布
	require.Len(t, env.publisher.routingKeys, 1)
	assert.Equal(t, EventOrderCreated, env.publisher.routingKeys[0])
}

// TestCreateOrder_Validation 测试开事务前的参数校验
func TestCreateOrder_Validation(t *testing.T) {
	env := newTestEnv()
	env.store.addProduct(1, 5900, 100)
	ctx := context.Background()

	// 空明细
	_, err := env.create.Execute(ctx, CreateOrderRequest{UserID: 10})
	assert.ErrorIs(t, err, order.ErrEmptyItems)

	// 数量非正
	_, err = env.create.Execute(ctx, CreateOrderRequest{
		UserID: 10,
		Items:  []CreateOrderItem{{ProductID: 1, Quantity: 0}},
	})
	assert.ErrorIs(t, err, order.ErrInvalidQuantity)

	// 同商品重复出现
	_, err = env.create.Execute(ctx, CreateOrderRequest{
		UserID: 10,
		Items: []CreateOrderItem{
			{ProductID: 1, Quantity: 1},
			{ProductID: 1, Quantity: 2},
		},
	})
	assert.ErrorIs(t, err, order.ErrDuplicateItems)

	// 校验失败不应留下任何订单，也不应动库存
	assert.Empty(t, env.store.orders)
	assert.Equal(t, 100, env.store.products[1].Stock)
}

// TestCreateOrder_InsufficientStock_Rollback 测试库存不足时整单回滚
// 第一个商品扣减成功后第二个不足，订单头和已扣库存必须全部恢复
func TestCreateOrder_InsufficientStock_Rollback(t *testing.T) {
	env := newTestEnv()
	env.store.addProduct(1, 5900, 100)
	env.store.addProduct(2, 12000, 1)

	_, err := env.create.Execute(context.Background(), CreateOrderRequest{
		UserID: 10,
		Items: []CreateOrderItem{
			{ProductID: 1, Quantity: 5},
			{ProductID: 2, Quantity: 3}, // 库存只有1
		},
	})
	assert.ErrorIs(t, err, product.ErrInsufficientStock)

	// 整单回滚：无订单、库存原样
	assert.Empty(t, env.store.orders)
	assert.Equal(t, 100, env.store.products[1].Stock)
	assert.Equal(t, 1, env.store.products[2].Stock)

	// 失败不发布事件
	assert.Empty(t, env.publisher.routingKeys)
}

// TestCreateOrder_ProductNotFound_Rollback 测试商品不存在时整单回滚
func TestCreateOrder_ProductNotFound_Rollback(t *testing.T) {
	env := newTestEnv()
	env.store.addProduct(1, 5900, 100)

	_, err := env.create.Execute(context.Background(), CreateOrderRequest{
		UserID: 10,
		Items: []CreateOrderItem{
			{ProductID: 1, Quantity: 5},
			{ProductID: 99, Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, product.ErrProductNotFound)
	assert.Empty(t, env.store.orders)
	assert.Equal(t, 100, env.store.products[1].Stock)
}

// TestCreateOrder_ExactStock 测试库存恰好等于需求（边界）
func TestCreateOrder_ExactStock(t *testing.T) {
	env := newTestEnv()
	env.store.addProduct(1, 5900, 5)

	_, err := env.create.Execute(context.Background(), CreateOrderRequest{
		UserID: 10,
		Items:  []CreateOrderItem{{ProductID: 1, Quantity: 5}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, env.store.products[1].Stock)
}

// TestCreateOrder_PriceSnapshotSurvivesRepricing 测试改价不影响已有订单
func TestCreateOrder_PriceSnapshotSurvivesRepricing(t *testing.T) {
	env := newTestEnv()
	env.store.addProduct(1, 5900, 100)

	resp, err := env.create.Execute(context.Background(), CreateOrderRequest{
		UserID: 10,
		Items:  []CreateOrderItem{{ProductID: 1, Quantity: 2}},
	})
	require.NoError(t, err)

	// 下单后商品改价
	env.store.products[1].Price = 9900

	view, err := env.getOrder.Execute(context.Background(), resp.OrderID, 10, user.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, int64(5900), view.Lines[0].UnitPrice, "订单行价格应保持下单时的快照")
	assert.Equal(t, int64(2*5900), view.Total)
}

// =========================================
// 添加商品
// =========================================

// TestAddItem_NewLine 测试添加新商品行
func TestAddItem_NewLine(t *testing.T) {
	env := newTestEnv()
	env.store.addProduct(1, 5900, 100)
	env.store.addProduct(2, 12000, 50)

	resp, err := env.create.Execute(context.Background(), CreateOrderRequest{
		UserID: 10,
		Items:  []CreateOrderItem{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	err = env.addItem.Execute(context.Background(), AddItemRequest{
		OrderID: resp.OrderID, ProductID: 2, Quantity: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, 47, env.store.products[2].Stock)

	view, _ := env.getOrder.Execute(context.Background(), resp.OrderID, 10, user.RoleCustomer)
	require.Len(t, view.Lines, 2)
	assert.Equal(t, int64(12000), view.Lines[1].UnitPrice)
}

// TestAddItem_AccumulateKeepsSnapshot 测试重复添加：数量累加，价格快照不刷新
func TestAddItem_AccumulateKeepsSnapshot(t *testing.T) {
	env := newTestEnv()
	env.store.addProduct(1, 5900, 100)

	resp, err := env.create.Execute(context.Background(), CreateOrderRequest{
		UserID: 10,
		Items:  []CreateOrderItem{{ProductID: 1, Quantity: 2}},
	})
	require.NoError(t, err)

	// 两次添加之间商品涨价
	env.store.products[1].Price = 9900

	err = env.addItem.Execute(context.Background(), AddItemRequest{
		OrderID: resp.OrderID, ProductID: 1, Quantity: 3,
	})
	require.NoError(t, err)

	view, _ := env.getOrder.Execute(context.Background(), resp.OrderID, 10, user.RoleCustomer)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 5, view.Lines[0].Quantity, "数量应累加")
	assert.Equal(t, int64(5900), view.Lines[0].UnitPrice, "涨价后快照仍是首次加入时的价格")

	// 库存只按新增量扣减
	assert.Equal(t, 95, env.store.products[1].Stock)
}

// TestAddItem_NotModifiable 测试订单定稿后拒绝加货
func TestAddItem_NotModifiable(t *testing.T) {
	env := newTestEnv()
	env.store.addProduct(1, 5900, 100)

	resp, _ := env.create.Execute(context.Background(), CreateOrderRequest{
		UserID: 10,
		Items:  []CreateOrderItem{{ProductID: 1, Quantity: 1}},
	})

	for _, status := range []order.Status{order.StatusShipped, order.StatusFulfilled, order.StatusCancelled} {
		env.store.orders[resp.OrderID].Status = status

		err := env.addItem.Execute(context.Background(), AddItemRequest{
			OrderID: resp.OrderID, ProductID: 1, Quantity: 1,
		})
		assert.ErrorIs(t, err, order.ErrOrderNotModifiable, "状态%s应拒绝修改", status)
	}

	// IN_PROGRESS仍可修改
	env.store.orders[resp.OrderID].Status = order.StatusInProgress
	err := env.addItem.Execute(context.Background(), AddItemRequest{
		OrderID: resp.OrderID, ProductID: 1, Quantity: 1,
	})
	assert.NoError(t, err)
}

// TestAddItem_InsufficientStock 测试库存不足时加货失败且无副作用
func TestAddItem_InsufficientStock(t *testing.T) {
	env := newTestEnv()
	env.store.addProduct(1, 5900, 3)

	resp, _ := env.create.Execute(context.Background(), CreateOrderRequest{
		UserID: 10,
		Items:  []CreateOrderItem{{ProductID: 1, Quantity: 2}},
	})

	err := env.addItem.Execute(context.Background(), AddItemRequest{
		OrderID: resp.OrderID, ProductID: 1, Quantity: 2, // 剩1个，不够
	})
	assert.ErrorIs(t, err, product.ErrInsufficientStock)

	view, _ := env.getOrder.Execute(context.Background(), resp.OrderID, 10, user.RoleCustomer)
	assert.Equal(t, 2, view.Lines[0].Quantity, "失败不应改变订单行")
	assert.Equal(t, 1, env.store.products[1].Stock, "失败不应改变库存")
}

// TestAddItem_Errors 测试其余失败路径
func TestAddItem_Errors(t *testing.T) {
	env := newTestEnv()
	env.store.addProduct(1, 5900, 100)
	ctx := context.Background()

	// 数量非正
	err := env.addItem.Execute(ctx, AddItemRequest{OrderID: 1, ProductID: 1, Quantity: 0})
	assert.ErrorIs(t, err, order.ErrInvalidQuantity)

	// 订单不存在
	err = env.addItem.Execute(ctx, AddItemRequest{OrderID: 99, ProductID: 1, Quantity: 1})
	assert.ErrorIs(t, err, order.ErrOrderNotFound)

	// 商品不存在
	resp, _ := env.create.Execute(ctx, CreateOrderRequest{
		UserID: 10,
		Items:  []CreateOrderItem{{ProductID: 1, Quantity: 1}},
	})
	err = env.addItem.Execute(ctx, AddItemRequest{OrderID: resp.OrderID, ProductID: 99, Quantity: 1})
	assert.ErrorIs(t, err, product.ErrProductNotFound)
}

// =========================================
// 移除商品
// =========================================

// TestRemoveItem_RestocksFullQuantity 测试移除订单行归还全部数量
func TestRemoveItem_RestocksFullQuantity(t *testing.T) {
	env := newTestEnv()
	env.store.addProduct(1, 5900, 100)

	resp, err := env.create.Execute(context.Background(), CreateOrderRequest{
		UserID: 10,
		Items:  []CreateOrderItem{{ProductID: 1, Quantity: 7}},
	})
	require.NoError(t, err)
	require.Equal(t, 93, env.store.products[1].Stock)

	err = env.removeItem.Execute(context.Background(), RemoveItemRequest{
		OrderID: resp.OrderID, ProductID: 1,
	})
	require.NoError(t, err)

	// 全部7件归还
	assert.Equal(t, 100, env.store.products[1].Stock)

	// 订单变空，但依然存在且合法
	view, err := env.getOrder.Execute(context.Background(), resp.OrderID, 10, user.RoleCustomer)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.Equal(t, int64(0), view.Total)

	// 事件
	assert.Contains(t, env.publisher.routingKeys, EventOrderItemRemoved)
}

// TestRemoveItem_LineNotFound 测试移除不存在的订单行
func TestRemoveItem_LineNotFound(t *testing.T) {
	env := newTestEnv()
	env.store.addProduct(1, 5900, 100)
	env.store.addProduct(2, 12000, 50)

	resp, _ := env.create.Execute(context.Background(), CreateOrderRequest{
		UserID: 10,
		Items:  []CreateOrderItem{{ProductID: 1, Quantity: 1}},
	})

	err := env.removeItem.Execute(context.Background(), RemoveItemRequest{
		OrderID: resp.OrderID, ProductID: 2, // 不在订单中
	})
	assert.ErrorIs(t, err, order.ErrLineNotFound)
	assert.Equal(t, 50, env.store.products[2].Stock, "失败不应动库存")
}

// TestRemoveItem_NotModifiable 测试定稿订单拒绝移除
func TestRemoveItem_NotModifiable(t *testing.T) {
	env := newTestEnv()
	env.store.addProduct(1, 5900, 100)

	resp, _ := env.create.Execute(context.Background(), CreateOrderRequest{
		UserID: 10,
		Items:  []CreateOrderItem{{ProductID: 1, Quantity: 2}},
	})
	env.store.orders[resp.OrderID].Status = order.StatusFulfilled

	err := env.removeItem.Execute(context.Background(), RemoveItemRequest{
		OrderID: resp.OrderID, ProductID: 1,
	})
	assert.ErrorIs(t, err, order.ErrOrderNotModifiable)
	assert.Equal(t, 98, env.store.products[1].Stock, "定稿订单的库存不应归还")
}

// =========================================
// 修改状态
// =========================================

// TestChangeStatus_Success 测试状态修改
func TestChangeStatus_Success(t *testing.T) {
	env := newTestEnv()
	env.store.addProduct(1, 5900, 100)

	resp, _ := env.create.Execute(context.Background(), CreateOrderRequest{
		UserID: 10,
		Items:  []CreateOrderItem{{ProductID: 1, Quantity: 1}},
	})

	for _, status := range []string{"IN_PROGRESS", "SHIPPED", "FULFILLED"} {
		err := env.changeStatus.Execute(context.Background(), ChangeStatusRequest{
			OrderID: resp.OrderID, Status: status,
		})
		require.NoError(t, err)
		assert.Equal(t, order.Status(status), env.store.orders[resp.OrderID].Status)
	}

	// 不做状态机限制：FULFILLED可以改回IN_PROGRESS（人工纠错）
	err := env.changeStatus.Execute(context.Background(), ChangeStatusRequest{
		OrderID: resp.OrderID, Status: "IN_PROGRESS",
	})
	assert.NoError(t, err)

	assert.Contains(t, env.publisher.routingKeys, EventOrderStatusChanged)
}

// TestChangeStatus_NewNotSettable 测试不允许设置回NEW
func TestChangeStatus_NewNotSettable(t *testing.T) {
	env := newTestEnv()
	env.store.addProduct(1, 5900, 100)

	resp, _ := env.create.Execute(context.Background(), CreateOrderRequest{
		UserID: 10,
		Items:  []CreateOrderItem{{ProductID: 1, Quantity: 1}},
	})

	err := env.changeStatus.Execute(context.Background(), ChangeStatusRequest{
		OrderID: resp.OrderID, Status: "NEW",
	})
	assert.ErrorIs(t, err, order.ErrStatusNotSettable)
}

// TestChangeStatus_InvalidStatus 测试未知状态
func TestChangeStatus_InvalidStatus(t *testing.T) {
	env := newTestEnv()
	err := env.changeStatus.Execute(context.Background(), ChangeStatusRequest{
		OrderID: 1, Status: "DELIVERED",
	})
	assert.ErrorIs(t, err, order.ErrInvalidStatus)
}

// TestChangeStatus_OrderNotFound 测试订单不存在
func TestChangeStatus_OrderNotFound(t *testing.T) {
	env := newTestEnv()
	err := env.changeStatus.Execute(context.Background(), ChangeStatusRequest{
		OrderID: 99, Status: "SHIPPED",
	})
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

// TestChangeStatus_CancelDoesNotRestock 测试取消订单不归还库存
// 归还必须通过显式的移除订单行完成
func TestChangeStatus_CancelDoesNotRestock(t *testing.T) {
	env := newTestEnv()
	env.store.addProduct(1, 5900, 100)

	resp, _ := env.create.Execute(context.Background(), CreateOrderRequest{
		UserID: 10,
		Items:  []CreateOrderItem{{ProductID: 1, Quantity: 10}},
	})
	require.Equal(t, 90, env.store.products[1].Stock)

	err := env.changeStatus.Execute(context.Background(), ChangeStatusRequest{
		OrderID: resp.OrderID, Status: "CANCELLED",
	})
	require.NoError(t, err)

	assert.Equal(t, order.StatusCancelled, env.store.orders[resp.OrderID].Status)
	assert.Equal(t, 90, env.store.products[1].Stock, "取消不应自动归还库存")
}

// =========================================
// 查询订单
// =========================================

// TestGetOrder_Ownership 测试查询权限：客户只能看自己的订单
func TestGetOrder_Ownership(t *testing.T) {
	env := newTestEnv()
	env.store.addProduct(1, 5900, 100)

	resp, _ := env.create.Execute(context.Background(), CreateOrderRequest{
		UserID: 10,
		Items:  []CreateOrderItem{{ProductID: 1, Quantity: 1}},
	})

	// 本人可查
	_, err := env.getOrder.Execute(context.Background(), resp.OrderID, 10, user.RoleCustomer)
	assert.NoError(t, err)

	// 其他客户被拒
	_, err = env.getOrder.Execute(context.Background(), resp.OrderID, 11, user.RoleCustomer)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// 店长、管理员可查任意订单
	_, err = env.getOrder.Execute(context.Background(), resp.OrderID, 11, user.RoleManager)
	assert.NoError(t, err)
	_, err = env.getOrder.Execute(context.Background(), resp.OrderID, 11, user.RoleAdmin)
	assert.NoError(t, err)

	// 订单不存在
	_, err = env.getOrder.Execute(context.Background(), 99, 10, user.RoleCustomer)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}
